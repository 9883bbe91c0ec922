package qa

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/sandevgo/climaqa/internal/core"
)

type Retriever struct {
	index core.PassageIndex
}

func NewRetriever(index core.PassageIndex) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns at most k passages scoring at least threshold,
// best first. An empty result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int, threshold float64) ([]core.Passage, error) {
	if k <= 0 {
		return []core.Passage{}, nil
	}

	candidates, err := r.index.Query(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}

	kept := make([]core.Passage, 0, len(candidates))
	for _, p := range candidates {
		if p.Score >= threshold {
			kept = append(kept, p)
		}
	}

	slices.SortStableFunc(kept, func(a, b core.Passage) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(kept) > k {
		kept = kept[:k]
	}
	return kept, nil
}
