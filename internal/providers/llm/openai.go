package llm

import (
	"context"

	"github.com/sandevgo/climaqa/internal/core"
)

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string, opts Options) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://api.openai.com",
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			Options:    opts,
		}),
	}
}

func (o *OpenAI) Models(ctx context.Context) ([]core.Model, error) {
	entries, err := o.listModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]core.Model, 0, len(entries))
	for _, m := range entries {
		models = append(models, core.Model{ID: m.ID, Name: m.ID})
	}
	return models, nil
}
