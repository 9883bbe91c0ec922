package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/memory"
)

type GenerateRequest struct {
	Question    string
	Instruction string
	// Context is the retrieved set. Only the first passage is quoted.
	Context []core.Passage
	History memory.History
}

// Generator assembles the answer prompt and makes one model call.
type Generator struct {
	model   core.GenerativeModel
	persona string
}

func NewGenerator(model core.GenerativeModel, persona string) *Generator {
	return &Generator{model: model, persona: persona}
}

func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	answer, err := g.model.Complete(ctx, g.BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty answer", core.ErrGeneration)
	}
	return answer, nil
}

func (g *Generator) BuildPrompt(req GenerateRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a %s.\n", g.persona)
	if req.Instruction != "" {
		sb.WriteString(req.Instruction)
		sb.WriteString("\n")
	}

	if len(req.Context) > 0 {
		sb.WriteString("\nContext:\n")
		sb.WriteString(req.Context[0].Content)
		sb.WriteString("\n")
	}

	if turns := req.History.Turns(); len(turns) > 0 {
		sb.WriteString("\nChat History:\n")
		for _, t := range turns {
			fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", t.Question, t.Answer)
		}
	}

	fmt.Fprintf(&sb, "\nQuestion: %s\n", req.Question)
	return sb.String()
}
