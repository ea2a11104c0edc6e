package responder

import (
	"context"
	"fmt"
	"strings"

	"askgate/internal/envelope"
	"askgate/internal/models"
	"askgate/internal/search"
)

// NoResultsSentinel is the literal answer for an empty web search.
const NoResultsSentinel = "No internet results found."

// WebResponder answers from open-web search snippets, one citation per
// result.
type WebResponder struct {
	provider   search.Provider
	maxResults int
}

func NewWebResponder(provider search.Provider, maxResults int) *WebResponder {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebResponder{provider: provider, maxResults: maxResults}
}

func (r *WebResponder) Generate(ctx context.Context, query string, _ []models.Message) (string, error) {
	return r.answer(ctx, query), nil
}

// answer runs the search and assembles the citation-annotated text. Backend
// failures come back as in-band error text so callers always get a value.
func (r *WebResponder) answer(ctx context.Context, query string) string {
	results, err := r.provider.Search(ctx, query, r.maxResults)
	if err != nil {
		return fmt.Sprintf("Internet search error: %v", err)
	}

	var (
		bodies []string
		cites  []models.Citation
	)
	for _, result := range results {
		if result.Snippet == "" {
			continue
		}
		bodies = append(bodies, result.Snippet)

		title := result.Title
		if title == "" {
			title = "Web Result"
		}
		url := result.URL
		if url == "" {
			url = "#"
		}
		cites = append(cites, models.Citation{Title: title, URL: url})
	}

	if len(bodies) == 0 {
		return NoResultsSentinel
	}
	return envelope.Annotate(strings.Join(bodies, "\n"), cites)
}
