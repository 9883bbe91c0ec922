package rag

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/sandevgo/climaqa/internal/core"
)

// Metadata keys written by the builder.
const (
	MetaFileName   = "file_name"
	MetaPageNumber = "page_number"
)

// Index is a read-only passage index over a chromem collection.
// Queries are safe for concurrent use.
type Index struct {
	collection *chromem.Collection
}

func NewIndex(collection *chromem.Collection) *Index {
	return &Index{collection: collection}
}

// OpenIndex imports an artifact written by Builder.
func OpenIndex(path, collection string, ef chromem.EmbeddingFunc) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index artifact: %w", err)
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("import index %s: %w", path, err)
	}

	col := db.GetCollection(collection, ef)
	if col == nil {
		return nil, fmt.Errorf("collection %q not found in %s", collection, path)
	}
	return NewIndex(col), nil
}

func (i *Index) Count() int {
	return i.collection.Count()
}

// Query returns up to k passages by descending similarity.
// Cosine similarity is clamped into [0,1].
func (i *Index) Query(ctx context.Context, text string, k int) ([]core.Passage, error) {
	n := min(k, i.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := i.collection.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	passages := make([]core.Passage, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata[MetaPageNumber])
		passages = append(passages, core.Passage{
			ID:         r.ID,
			Content:    r.Content,
			SourceFile: r.Metadata[MetaFileName],
			PageNumber: page,
			Score:      clampScore(float64(r.Similarity)),
		})
	}
	return passages, nil
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
