package installer

import (
	"strings"

	"github.com/sandevgo/climaqa/internal/config"
)

// Intermediate keys are consumed by FinalizationStep and never written to .env.
const (
	keyChannel = "_CHANNEL"

	keyProvider       = "CLIMAQA_LLM_PROVIDER"
	keyModel          = "CLIMAQA_LLM_MODEL"
	keyOllamaURL      = "CLIMAQA_OLLAMA_BASE_URL"
	keyCustomURL      = "CLIMAQA_CUSTOM_BASE_URL"
	keyEmbedProvider  = "CLIMAQA_EMBEDDING_PROVIDER"
	keyEmbedModel     = "CLIMAQA_EMBEDDING_MODEL"
	keyEmbedURL       = "CLIMAQA_EMBEDDING_BASE_URL"
	keyTelegramToken  = "CLIMAQA_TELEGRAM_TOKEN"
	keyTelegramOwner  = "CLIMAQA_TELEGRAM_OWNER_ID"
	keyEnableHTTP     = "CLIMAQA_ENABLE_HTTP"
	keyEnableTelegram = "CLIMAQA_ENABLE_TELEGRAM"
)

const (
	channelHTTP     = "HTTP API"
	channelTelegram = "Telegram"
	channelBoth     = "HTTP API + Telegram"
)

type InstallState struct {
	RuntimePath string
	EnvVars     map[string]string
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{
		RuntimePath: runtimePath,
		EnvVars:     make(map[string]string),
	}
}

func (s *InstallState) Provider() string {
	return strings.ToLower(s.EnvVars[keyProvider])
}

func (s *InstallState) wantsTelegram() bool {
	ch := s.EnvVars[keyChannel]
	return ch == channelTelegram || ch == channelBoth
}

// LLMConfig builds the provider config from the answers collected so far.
func (s *InstallState) LLMConfig() *config.LLMConfig {
	cfg := &config.LLMConfig{
		Provider:      s.Provider(),
		Model:         s.EnvVars[keyModel],
		OllamaBaseURL: s.EnvVars[keyOllamaURL],
		CustomBaseURL: s.EnvVars[keyCustomURL],
	}
	switch cfg.Provider {
	case "openai":
		cfg.OpenAIAPIKey = s.EnvVars[apiKeyEnv[cfg.Provider]]
	case "anthropic":
		cfg.AnthropicAPIKey = s.EnvVars[apiKeyEnv[cfg.Provider]]
	case "openrouter":
		cfg.OpenRouterAPIKey = s.EnvVars[apiKeyEnv[cfg.Provider]]
	case "ollama":
		cfg.OllamaAPIKey = s.EnvVars[apiKeyEnv[cfg.Provider]]
	case "custom":
		cfg.CustomAPIKey = s.EnvVars[apiKeyEnv[cfg.Provider]]
	}
	return cfg
}
