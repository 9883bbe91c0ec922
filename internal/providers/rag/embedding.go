package rag

import (
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/sandevgo/climaqa/internal/config"
)

// NewEmbeddingFunc builds the embedding function for queries and index builds.
// The same provider and model must be used on both sides.
// openAIKey is used when no dedicated embedding key is configured.
func NewEmbeddingFunc(cfg *config.RAGConfig, openAIKey string) (chromem.EmbeddingFunc, error) {
	switch strings.ToLower(cfg.EmbeddingProvider) {
	case "openai":
		key := cfg.EmbeddingAPIKey
		if key == "" {
			key = openAIKey
		}
		if key == "" {
			return nil, fmt.Errorf("openai embeddings require CLIMAQA_EMBEDDING_API_KEY or CLIMAQA_OPENAI_API_KEY")
		}
		if cfg.EmbeddingBaseURL != "" {
			return chromem.NewEmbeddingFuncOpenAICompat(cfg.EmbeddingBaseURL, key, cfg.EmbeddingModel, nil), nil
		}
		return chromem.NewEmbeddingFuncOpenAI(key, chromem.EmbeddingModelOpenAI(cfg.EmbeddingModel)), nil
	case "ollama":
		// empty base URL selects chromem's local default
		return chromem.NewEmbeddingFuncOllama(cfg.EmbeddingModel, cfg.EmbeddingBaseURL), nil
	case "openai_compat":
		if cfg.EmbeddingBaseURL == "" {
			return nil, fmt.Errorf("openai_compat embeddings require CLIMAQA_EMBEDDING_BASE_URL")
		}
		return chromem.NewEmbeddingFuncOpenAICompat(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, nil), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.EmbeddingProvider)
	}
}
