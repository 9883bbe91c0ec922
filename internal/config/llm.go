package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"CLIMAQA_LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"CLIMAQA_LLM_MODEL" envDefault:"gpt-4o"`
	// ClassifierModel overrides Model for question classification.
	ClassifierModel string        `env:"CLIMAQA_CLASSIFIER_MODEL"`
	Temperature     float64       `env:"CLIMAQA_LLM_TEMPERATURE" envDefault:"0.5"`
	MaxRetries      int           `env:"CLIMAQA_LLM_MAX_RETRIES" envDefault:"2"`
	Timeout         time.Duration `env:"CLIMAQA_LLM_TIMEOUT" envDefault:"120s"`

	OpenAIAPIKey     string `env:"CLIMAQA_OPENAI_API_KEY" secret:"true"`
	AnthropicAPIKey  string `env:"CLIMAQA_ANTHROPIC_API_KEY" secret:"true"`
	OpenRouterAPIKey string `env:"CLIMAQA_OPENROUTER_API_KEY" secret:"true"`
	OllamaBaseURL    string `env:"CLIMAQA_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey     string `env:"CLIMAQA_OLLAMA_API_KEY" secret:"true"`
	CustomBaseURL    string `env:"CLIMAQA_CUSTOM_BASE_URL"`
	CustomAPIKey     string `env:"CLIMAQA_CUSTOM_API_KEY" secret:"true"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

// WithModel returns a copy of the config pointing at another model.
func (c LLMConfig) WithModel(model string) *LLMConfig {
	c.Model = model
	return &c
}

// ForClassifier returns the config used for the classification model.
func (c LLMConfig) ForClassifier() *LLMConfig {
	if c.ClassifierModel == "" {
		return &c
	}
	return c.WithModel(c.ClassifierModel)
}
