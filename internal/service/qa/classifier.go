package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/climaqa/internal/core"
)

const classificationPrompt = `You are an assistant trained to identify the type of a question.
Reply with exactly one word: "general" if the question is generic and does not need any documents,
or "specific" if answering it requires detailed information from a document base.

Question: %s

Classification:`

// Classifier labels questions with one model call.
type Classifier struct {
	model core.GenerativeModel
}

func NewClassifier(model core.GenerativeModel) *Classifier {
	return &Classifier{model: model}
}

func (c *Classifier) Classify(ctx context.Context, question string) (core.Label, error) {
	out, err := c.model.Complete(ctx, fmt.Sprintf(classificationPrompt, question))
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrClassification, err)
	}
	return ParseLabel(out), nil
}

// ParseLabel accepts only an exact "general"; everything else is specific.
func ParseLabel(out string) core.Label {
	if strings.ToLower(strings.TrimSpace(out)) == string(core.LabelGeneral) {
		return core.LabelGeneral
	}
	return core.LabelSpecific
}
