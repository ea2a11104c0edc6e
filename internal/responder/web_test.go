package responder

import (
	"context"
	"strings"
	"testing"

	"askgate/internal/envelope"
	"askgate/internal/search"
)

func TestWebResponderAnnotatesResults(t *testing.T) {
	provider := &fakeSearchProvider{results: []search.Result{
		{Title: "Go docs", URL: "https://go.dev/doc", Snippet: "Documentation for Go."},
		{Title: "", URL: "", Snippet: "An untitled snippet."},
	}}
	r := NewWebResponder(provider, 5)

	raw, err := r.Generate(context.Background(), "golang documentation", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	body, cites := envelope.Strip(raw)
	if body != "Documentation for Go.\nAn untitled snippet." {
		t.Fatalf("unexpected body: %q", body)
	}
	if len(cites) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(cites))
	}
	if cites[0].Title != "Go docs" || cites[0].URL != "https://go.dev/doc" {
		t.Fatalf("unexpected citation: %#v", cites[0])
	}
	if cites[1].Title != "Web Result" || cites[1].URL != "#" {
		t.Fatalf("expected placeholder citation, got %#v", cites[1])
	}
}

func TestWebResponderSkipsEmptySnippets(t *testing.T) {
	provider := &fakeSearchProvider{results: []search.Result{
		{Title: "Empty", URL: "https://example.com", Snippet: ""},
	}}
	r := NewWebResponder(provider, 5)

	raw, err := r.Generate(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw != NoResultsSentinel {
		t.Fatalf("expected no-results sentinel, got %q", raw)
	}
}

func TestWebResponderNoResults(t *testing.T) {
	r := NewWebResponder(&fakeSearchProvider{}, 5)

	raw, err := r.Generate(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw != NoResultsSentinel {
		t.Fatalf("expected no-results sentinel, got %q", raw)
	}
}

func TestWebResponderSearchFailureInBand(t *testing.T) {
	r := NewWebResponder(&fakeSearchProvider{err: errBackendDown}, 5)

	raw, err := r.Generate(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("generate should not propagate backend errors, got %v", err)
	}
	if !strings.HasPrefix(raw, "Internet search error:") {
		t.Fatalf("expected in-band search error, got %q", raw)
	}
}
