package docindex

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
)

// Hit is one ranked passage from the internal corpus.
type Hit struct {
	Name    string
	Content string
}

// Index is the full-text document backend the policy responder searches.
type Index interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

type indexedDocument struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// BleveIndex stores the internal document corpus in a bleve full-text index.
type BleveIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it when absent.
func Open(path string) (*BleveIndex, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open document index %s: %w", path, err)
	}
	return &BleveIndex{index: index}, nil
}

// OpenMemOnly builds an in-memory index, used by tests and ad hoc runs.
func OpenMemOnly() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Add indexes one named document.
func (b *BleveIndex) Add(name, content string) error {
	if err := b.index.Index(name, indexedDocument{Name: name, Content: content}); err != nil {
		return fmt.Errorf("index document %s: %w", name, err)
	}
	return nil
}

// Ingest loads every readable file under dir into the index and returns the
// number of documents indexed. Unreadable files are skipped with a log line so
// one bad document does not abort the corpus.
func (b *BleveIndex) Ingest(ctx context.Context, dir string) (int, error) {
	extParser, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return 0, fmt.Errorf("init document parser: %w", err)
	}
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      extParser,
	})
	if err != nil {
		return 0, fmt.Errorf("init document loader: %w", err)
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		docs, err := loader.Load(ctx, document.Source{URI: path})
		if err != nil {
			log.Printf("skip document %s: %v", path, err)
			return nil
		}
		var builder strings.Builder
		for _, doc := range docs {
			content := strings.TrimSpace(doc.Content)
			if content == "" {
				continue
			}
			builder.WriteString(content)
			builder.WriteString("\n\n")
		}
		content := strings.TrimSpace(builder.String())
		if content == "" {
			return nil
		}
		if err := b.Add(filepath.Base(path), content); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("ingest documents from %s: %w", dir, err)
	}
	return count, nil
}

// Search returns the top ranked passages matching the query.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, 0, false)
	req.Fields = []string{"name", "content"}

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		h := Hit{Name: hit.ID}
		if name, ok := hit.Fields["name"].(string); ok && name != "" {
			h.Name = name
		}
		if content, ok := hit.Fields["content"].(string); ok {
			h.Content = content
		}
		if h.Content == "" {
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Close releases the underlying index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
