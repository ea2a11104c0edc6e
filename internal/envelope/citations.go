package envelope

import (
	"encoding/json"
	"regexp"
	"strings"

	"askgate/internal/models"
)

// Citations ride inside text answers between literal markers so the whole
// answer still travels as one string. Consumers locate the block by substring
// search; Strip recovers the visible text and the citation list.
const (
	citationsStart = "[CITATIONS_METADATA]"
	citationsEnd   = "[/CITATIONS_METADATA]"
)

// Annotate appends the citation block to body. Empty citation lists leave the
// body unchanged.
func Annotate(body string, cites []models.Citation) string {
	if len(cites) == 0 {
		return body
	}
	meta, err := json.Marshal(cites)
	if err != nil {
		return body
	}
	return body + "\n\n" + citationsStart + string(meta) + citationsEnd
}

// Strip removes the citation block and returns the visible text plus the
// parsed citations. Text without markers (or with an unparseable block) comes
// back unchanged with an empty list.
func Strip(body string) (string, []models.Citation) {
	start := strings.Index(body, citationsStart)
	if start < 0 {
		return body, nil
	}
	end := strings.Index(body[start:], citationsEnd)
	if end < 0 {
		return body, nil
	}
	end += start

	var cites []models.Citation
	meta := body[start+len(citationsStart) : end]
	if err := json.Unmarshal([]byte(meta), &cites); err != nil {
		return body, nil
	}
	visible := body[:start] + body[end+len(citationsEnd):]
	return strings.TrimSpace(visible), cites
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// CleanText collapses runs of three or more newlines and trims the result so
// answers do not carry excessive blank lines into the UI or the history.
func CleanText(text string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}
