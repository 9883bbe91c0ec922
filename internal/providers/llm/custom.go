package llm

import (
	"context"

	"github.com/sandevgo/climaqa/internal/core"
)

// CustomOpenAI talks to any server exposing the OpenAI chat completions API.
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string, opts Options) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			Options:    opts,
		}),
	}
}

func (c *CustomOpenAI) Models(ctx context.Context) ([]core.Model, error) {
	entries, err := c.listModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]core.Model, 0, len(entries))
	for _, m := range entries {
		models = append(models, core.Model{ID: m.ID, Name: m.ID})
	}
	return models, nil
}
