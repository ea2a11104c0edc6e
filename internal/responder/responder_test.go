package responder

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"askgate/internal/docindex"
	"askgate/internal/search"
)

// fakeCompleter scripts LLM completions for tests.
type fakeCompleter struct {
	response     string
	err          error
	lastPrompt   string
	lastMessages []*schema.Message
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeCompleter) Chat(_ context.Context, messages []*schema.Message) (string, error) {
	f.lastMessages = messages
	return f.response, f.err
}

// fakeSearchProvider scripts web search results for tests.
type fakeSearchProvider struct {
	results   []search.Result
	err       error
	lastQuery string
}

func (f *fakeSearchProvider) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	f.lastQuery = query
	return f.results, f.err
}

// fakeIndex scripts document index hits for tests.
type fakeIndex struct {
	hits []docindex.Hit
	err  error
}

func (f *fakeIndex) Search(context.Context, string, int) ([]docindex.Hit, error) {
	return f.hits, f.err
}

var errBackendDown = errors.New("backend unreachable")
