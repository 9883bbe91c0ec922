package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/log"
)

type Provider interface {
	core.GenerativeModel
	core.ModelLister
}

// NewProvider creates the provider selected by configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	opts := Options{
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
		MaxRetries:  cfg.MaxRetries,
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, opts), nil
	case "anthropic":
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model, opts), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, opts), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model, opts), nil
	case "custom":
		if cfg.CustomBaseURL == "" {
			return nil, fmt.Errorf("custom llm provider requires CLIMAQA_CUSTOM_BASE_URL")
		}
		return NewCustomOpenAI(cfg.CustomBaseURL, cfg.CustomAPIKey, cfg.Model, opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
