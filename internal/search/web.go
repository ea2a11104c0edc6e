package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"
	"github.com/cloudwego/eino/components/tool"
)

// Result is one ranked web snippet.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider is the open-web search backend.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// WebProvider queries Google when credentials are available and falls back to
// DuckDuckGo, which needs no token.
type WebProvider struct {
	google tool.InvokableTool
	duck   tool.InvokableTool
}

// NewWebProvider initializes the underlying search tools. maxResults bounds
// how many snippets each provider returns.
func NewWebProvider(maxResults int) (*WebProvider, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	googleTool := initGoogleSearch(maxResults)
	duckTool, err := initDDGSearch(maxResults)
	if err != nil {
		return nil, err
	}
	if googleTool == nil && duckTool == nil {
		return nil, errors.New("no search providers available")
	}
	return &WebProvider{google: googleTool, duck: duckTool}, nil
}

func (p *WebProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	payloadBytes, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal search params: %w", err)
	}
	payload := string(payloadBytes)

	if p.google != nil {
		if raw, err := p.google.InvokableRun(ctx, payload); err == nil {
			return limitResults(parseResults(raw), maxResults), nil
		} else {
			log.Printf("google search failed: %v", err)
		}
	}

	if p.duck != nil {
		if raw, err := p.duck.InvokableRun(ctx, payload); err == nil {
			return limitResults(parseResults(raw), maxResults), nil
		} else {
			log.Printf("duckduckgo search failed: %v", err)
		}
	}

	return nil, errors.New("no search provider succeeded")
}

// parseResults extracts ranked results from a provider's JSON output. The two
// providers shape their output differently, so field lookup is tolerant.
func parseResults(raw string) []Result {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	items := resultItems(payload)
	results := make([]Result, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := Result{
			Title:   stringField(entry, "title"),
			URL:     stringField(entry, "url", "link", "href"),
			Snippet: stringField(entry, "description", "snippet", "body", "summary", "content"),
		}
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		results = append(results, r)
	}
	return results
}

func resultItems(payload any) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"results", "items"} {
			if items, ok := v[key].([]any); ok {
				return items
			}
		}
	}
	return nil
}

func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := entry[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func limitResults(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}

func initDDGSearch(maxResults int) (tool.InvokableTool, error) {
	duckTool, err := duckduckgo.NewTextSearchTool(context.Background(), &duckduckgo.Config{
		ToolName:   "web_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: maxResults,
		Region:     duckduckgo.RegionWT,
		Timeout:    10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("init duckduckgo search: %w", err)
	}
	return duckTool, nil
}

func initGoogleSearch(maxResults int) tool.InvokableTool {
	googleAPIKey := os.Getenv("GOOGLE_API_KEY")
	googleSearchEngineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID")
	if googleAPIKey == "" || googleSearchEngineID == "" {
		log.Printf("google search disabled: missing GOOGLE_API_KEY or GOOGLE_SEARCH_ENGINE_ID")
		return nil
	}
	googleTool, err := googlesearch.NewTool(context.Background(), &googlesearch.Config{
		ToolName:       "web_search_google",
		ToolDesc:       "Google Search Tool",
		APIKey:         googleAPIKey,
		SearchEngineID: googleSearchEngineID,
		Lang:           "en",
		Num:            maxResults,
	})
	if err != nil {
		log.Printf("google search disabled: %v", err)
		return nil
	}
	return googleTool
}
