package rag

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/philippgille/chromem-go"
)

const fakeDims = 32

// fakeEmbedding hashes words into a bag-of-words vector so texts sharing
// vocabulary land close together. The bias dimension keeps vectors non-zero.
func fakeEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, fakeDims+1)
	vec[fakeDims] = 0.01
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%fakeDims]++
	}
	return vec, nil
}

var _ chromem.EmbeddingFunc = fakeEmbedding
