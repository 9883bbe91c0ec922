package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(passages []core.Passage) []string {
	out := make([]string, 0, len(passages))
	for _, p := range passages {
		out = append(out, p.ID)
	}
	return out
}

func TestRetriever_Retrieve(t *testing.T) {
	tests := []struct {
		name      string
		passages  []core.Passage
		k         int
		threshold float64
		want      []string
	}{
		{
			name:      "threshold filters and sorts",
			passages:  []core.Passage{passage("b", 0.77, "f", 1), passage("a", 0.82, "f", 2), passage("c", 0.60, "f", 3)},
			k:         5,
			threshold: 0.75,
			want:      []string{"a", "b"},
		},
		{
			name:      "boundary is inclusive",
			passages:  []core.Passage{passage("eq", 0.75, "f", 1), passage("below", 0.74, "f", 1)},
			k:         5,
			threshold: 0.75,
			want:      []string{"eq"},
		},
		{
			name:      "truncates to k",
			passages:  []core.Passage{passage("a", 0.9, "f", 1), passage("b", 0.8, "f", 1), passage("c", 0.85, "f", 1)},
			k:         2,
			threshold: 0.5,
			want:      []string{"a", "c"},
		},
		{
			name:      "ties keep index order",
			passages:  []core.Passage{passage("x", 0.8, "f", 1), passage("y", 0.8, "f", 1)},
			k:         5,
			threshold: 0.5,
			want:      []string{"x", "y"},
		},
		{
			name:      "nothing above threshold",
			passages:  []core.Passage{passage("a", 0.3, "f", 1)},
			k:         5,
			threshold: 0.75,
			want:      []string{},
		},
		{
			name:      "k zero",
			passages:  []core.Passage{passage("a", 0.99, "f", 1)},
			k:         0,
			threshold: 0.1,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &stubIndex{passages: tt.passages}
			got, err := NewRetriever(idx).Retrieve(context.Background(), "q", tt.k, tt.threshold)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
			assert.LessOrEqual(t, len(got), max(tt.k, 0))
		})
	}
}

func TestRetriever_KZeroSkipsIndex(t *testing.T) {
	idx := &stubIndex{}
	_, err := NewRetriever(idx).Retrieve(context.Background(), "q", 0, 0.5)
	require.NoError(t, err)
	assert.Zero(t, idx.queries)
}

func TestRetriever_IndexError(t *testing.T) {
	cause := errors.New("index unavailable")
	_, err := NewRetriever(&stubIndex{err: cause}).Retrieve(context.Background(), "q", 5, 0.75)

	require.ErrorIs(t, err, core.ErrRetrieval)
	require.ErrorIs(t, err, cause)
}
