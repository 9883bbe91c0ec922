package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

type RAGConfig struct {
	TopK      int     `env:"CLIMAQA_RAG_TOP_K" envDefault:"5"`
	Threshold float64 `env:"CLIMAQA_RAG_THRESHOLD" envDefault:"0.75"`

	Collection string `env:"CLIMAQA_RAG_COLLECTION" envDefault:"passages"`
	// IndexPath overrides the artifact location under the runtime directory.
	IndexPath  string `env:"CLIMAQA_RAG_INDEX_PATH"`
	WatchIndex bool   `env:"CLIMAQA_RAG_WATCH_INDEX" envDefault:"false"`

	EmbeddingProvider string `env:"CLIMAQA_EMBEDDING_PROVIDER" envDefault:"openai"`
	EmbeddingModel    string `env:"CLIMAQA_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingBaseURL  string `env:"CLIMAQA_EMBEDDING_BASE_URL"`
	EmbeddingAPIKey   string `env:"CLIMAQA_EMBEDDING_API_KEY" secret:"true"`

	// Offline index build
	SourceDir    string   `env:"CLIMAQA_RAG_SOURCE_DIR"`
	ChunkTokens  int      `env:"CLIMAQA_RAG_CHUNK_TOKENS" envDefault:"800"`
	ChunkOverlap int      `env:"CLIMAQA_RAG_CHUNK_OVERLAP" envDefault:"200"`
	SkipMarkers  []string `env:"CLIMAQA_RAG_SKIP_MARKERS" envSeparator:"," envDefault:"sumário,índice,glossário,table of contents,glossary"`
	Concurrency  int      `env:"CLIMAQA_RAG_CONCURRENCY" envDefault:"4"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return cfg
}
