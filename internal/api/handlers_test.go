package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"askgate/internal/envelope"
	"askgate/internal/gateway"
)

type fakeDispatcher struct {
	env       envelope.Envelope
	err       error
	lastQuery gateway.Query
}

func (f *fakeDispatcher) Handle(_ context.Context, q gateway.Query) (envelope.Envelope, error) {
	f.lastQuery = q
	return f.env, f.err
}

func newTestRouter(d Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(d, "").RegisterRoutes(router)
	return router
}

func postAsk(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestAskTextResponse(t *testing.T) {
	dispatcher := &fakeDispatcher{env: envelope.Text("Goa is great in December.")}
	router := newTestRouter(dispatcher)

	rec := postAsk(t, router, `{"query":"plan a trip to Goa","conversation_id":"c1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["answer"] != "Goa is great in December." {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["type"]; ok {
		t.Fatalf("text responses must not carry a type field: %v", payload)
	}
	if dispatcher.lastQuery.Text != "plan a trip to Goa" || dispatcher.lastQuery.ConversationID != "c1" {
		t.Fatalf("dispatcher received wrong query: %#v", dispatcher.lastQuery)
	}
}

func TestAskImageResponse(t *testing.T) {
	dispatcher := &fakeDispatcher{env: envelope.Image("aGVsbG8=")}
	router := newTestRouter(dispatcher)

	rec := postAsk(t, router, `{"query":"bar chart of sales","conversation_id":"c1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["type"] != "image" || payload["image"] != "aGVsbG8=" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["answer"] != "Here is the graph." {
		t.Fatalf("expected fixed caption, got %v", payload["answer"])
	}
}

func TestAskTableResponse(t *testing.T) {
	dispatcher := &fakeDispatcher{env: envelope.Table([]map[string]any{
		{"product_name": "Widget", "total": float64(5)},
	})}
	router := newTestRouter(dispatcher)

	rec := postAsk(t, router, `{"query":"total sales by product","conversation_id":"c1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["type"] != "table" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	rows, ok := payload["data"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one data row, got %v", payload["data"])
	}
}

func TestAskRejectsMalformedRequests(t *testing.T) {
	dispatcher := &fakeDispatcher{env: envelope.Text("never reached")}
	router := newTestRouter(dispatcher)

	for _, body := range []string{
		`{}`,
		`{"query":"hello"}`,
		`{"conversation_id":"c1"}`,
		`not json`,
	} {
		rec := postAsk(t, router, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		payload := decodeBody(t, rec)
		if payload["error"] != "query and conversation_id are required" {
			t.Fatalf("body %q: unexpected error payload: %v", body, payload)
		}
	}
	if dispatcher.lastQuery.Text != "" {
		t.Fatalf("dispatcher must not run for malformed requests")
	}
}

func TestAskValidationErrorsFromGateway(t *testing.T) {
	dispatcher := &fakeDispatcher{err: gateway.ErrEmptyQuery}
	router := newTestRouter(dispatcher)

	rec := postAsk(t, router, `{"query":"   ","conversation_id":"c1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if payload := decodeBody(t, rec); payload["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
