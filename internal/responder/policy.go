package responder

import (
	"context"
	"log"
	"strings"

	"askgate/internal/docindex"
	"askgate/internal/envelope"
	"askgate/internal/models"
)

const policyTopK = 5

// policyFallbackSuffix steers the web fallback toward regulation content when
// the internal corpus has nothing.
const policyFallbackSuffix = " government policy"

// PolicyResponder answers from the internal document index and cites the
// source documents. Zero hits or an index failure fall back to the open web.
type PolicyResponder struct {
	index   docindex.Index
	web     *WebResponder
	baseURL string
}

// NewPolicyResponder wires the document index and the web fallback. baseURL,
// when set, prefixes document names to form clickable source links.
func NewPolicyResponder(index docindex.Index, web *WebResponder, baseURL string) *PolicyResponder {
	return &PolicyResponder{index: index, web: web, baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *PolicyResponder) Generate(ctx context.Context, query string, _ []models.Message) (string, error) {
	hits, err := r.index.Search(ctx, query, policyTopK)
	if err != nil {
		log.Printf("policy document search failed: %v", err)
		return r.web.answer(ctx, query+policyFallbackSuffix), nil
	}
	if len(hits) == 0 {
		return r.web.answer(ctx, query+policyFallbackSuffix), nil
	}

	docs := make([]string, 0, len(hits))
	cites := make([]models.Citation, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, hit.Content)
		cites = append(cites, models.Citation{
			Title: hit.Name,
			URL:   r.sourceURL(hit.Name),
		})
	}
	return envelope.Annotate(strings.Join(docs, "\n"), cites), nil
}

func (r *PolicyResponder) sourceURL(name string) string {
	if r.baseURL == "" {
		return "Internal Document: " + name
	}
	return r.baseURL + "/" + name
}
