package envelope

import (
	"encoding/json"
	"fmt"
)

// Responders multiplex three response shapes through a single text channel.
// A structured payload is a JSON object tagged with a "type" discriminant;
// everything else is plain text. Decode is total: unrecognized or broken
// payloads degrade to the text shape instead of failing.

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindTable Kind = "table"
)

const (
	typeImage     = "image"
	typeSQLResult = "sql_result"
)

// Envelope is the decoded result of a responder's raw output. Exactly one of
// Body, Image or Rows is meaningful, selected by Kind.
type Envelope struct {
	Kind  Kind
	Body  string
	Image string // base64 PNG
	Rows  []map[string]any
}

func Text(body string) Envelope {
	return Envelope{Kind: KindText, Body: body}
}

func Image(data string) Envelope {
	return Envelope{Kind: KindImage, Image: data}
}

func Table(rows []map[string]any) Envelope {
	if rows == nil {
		rows = []map[string]any{}
	}
	return Envelope{Kind: KindTable, Rows: rows}
}

// Decode maps a raw responder string to exactly one Envelope. It never fails:
// anything that is not a recognized tagged JSON object comes back as text.
func Decode(raw string) Envelope {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Text(raw)
	}

	var tag string
	if rawType, ok := payload["type"]; ok {
		if err := json.Unmarshal(rawType, &tag); err != nil {
			return Text(raw)
		}
	}

	switch tag {
	case typeImage:
		rawData, ok := payload["data"]
		if !ok {
			return Text(fmt.Sprintf("malformed image response: missing data field in %q", raw))
		}
		var data string
		if err := json.Unmarshal(rawData, &data); err != nil {
			return Text(fmt.Sprintf("malformed image response: %v", err))
		}
		return Image(data)
	case typeSQLResult:
		var rows []map[string]any
		if rawData, ok := payload["data"]; ok {
			// non-array data is treated as an empty row set
			_ = json.Unmarshal(rawData, &rows)
		}
		return Table(rows)
	default:
		return Text(raw)
	}
}
