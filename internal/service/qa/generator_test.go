package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_BuildPrompt(t *testing.T) {
	g := NewGenerator(replying("ok"), "climate crisis specialist")

	prompt := g.BuildPrompt(GenerateRequest{
		Question:    "What about floods?",
		Instruction: "Explain simply.",
		Context:     []core.Passage{passage("top", 0.9, "a.txt", 1), passage("second", 0.8, "b.txt", 2)},
		History: memory.NewHistory(
			core.Turn{Question: "Q1", Answer: "A1"},
			core.Turn{Question: "Q2", Answer: "A2"},
		),
	})

	want := `You are a climate crisis specialist.
Explain simply.

Context:
content of top

Chat History:
User: Q1
Assistant: A1
User: Q2
Assistant: A2

Question: What about floods?
`
	assert.Equal(t, want, prompt)
	assert.NotContains(t, prompt, "content of second")
}

func TestGenerator_BuildPromptWithoutContext(t *testing.T) {
	g := NewGenerator(replying("ok"), "climate crisis specialist")
	prompt := g.BuildPrompt(GenerateRequest{Question: "Hello", Instruction: "Explain simply."})

	assert.NotContains(t, prompt, "Context:")
	assert.NotContains(t, prompt, "Chat History:")
	assert.Equal(t, "You are a climate crisis specialist.\nExplain simply.\n\nQuestion: Hello\n", prompt)
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name    string
		model   *stubModel
		want    string
		wantErr bool
	}{
		{"trims answer", replying("  Sea levels rise.\n"), "Sea levels rise.", false},
		{"blank answer", replying(" \n\t"), "", true},
		{"model error", failing(errors.New("502 bad gateway")), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewGenerator(tt.model, "x").Generate(context.Background(), GenerateRequest{Question: "q"})
			if tt.wantErr {
				require.ErrorIs(t, err, core.ErrGeneration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
