package envelope

import (
	"reflect"
	"strings"
	"testing"

	"askgate/internal/models"
)

func TestAnnotateStripRoundTrip(t *testing.T) {
	body := "The leave policy allows 24 days per year.\nCarry-forward caps at 10."
	cites := []models.Citation{
		{Title: "Leave Policy.pdf", URL: "https://docs.example.com/Leave%20Policy.pdf"},
		{Title: "HR Handbook", URL: "Internal Document: HR Handbook"},
	}

	annotated := Annotate(body, cites)
	if !strings.Contains(annotated, citationsStart) || !strings.Contains(annotated, citationsEnd) {
		t.Fatalf("expected citation markers in %q", annotated)
	}

	visible, got := Strip(annotated)
	if visible != body {
		t.Fatalf("visible text mismatch:\nwant %q\ngot  %q", body, visible)
	}
	if !reflect.DeepEqual(got, cites) {
		t.Fatalf("citations mismatch: %#v", got)
	}
}

func TestAnnotateEmptyCitations(t *testing.T) {
	if got := Annotate("answer", nil); got != "answer" {
		t.Fatalf("expected body unchanged, got %q", got)
	}
}

func TestStripWithoutMarkers(t *testing.T) {
	input := "no markers here, just [brackets] and JSON-looking {\"text\":1}"
	visible, cites := Strip(input)
	if visible != input {
		t.Fatalf("expected input unchanged, got %q", visible)
	}
	if len(cites) != 0 {
		t.Fatalf("expected no citations, got %#v", cites)
	}
}

func TestStripMalformedMetadata(t *testing.T) {
	input := "answer\n\n" + citationsStart + "{broken" + citationsEnd
	visible, cites := Strip(input)
	if visible != input {
		t.Fatalf("expected malformed block left in place, got %q", visible)
	}
	if len(cites) != 0 {
		t.Fatalf("expected no citations, got %#v", cites)
	}
}

func TestCleanText(t *testing.T) {
	in := "\n\nline one\n\n\n\nline two\n\n\n"
	want := "line one\n\nline two"
	if got := CleanText(in); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}
