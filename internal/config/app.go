package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CLIMAQA_RUNTIME_PATH"`

	// Transport flags
	EnableHTTP     bool `env:"CLIMAQA_ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"CLIMAQA_ENABLE_TELEGRAM" envDefault:"false"`

	// Pipeline
	HistoryWindow int           `env:"CLIMAQA_HISTORY_WINDOW" envDefault:"0"`
	AskTimeout    time.Duration `env:"CLIMAQA_ASK_TIMEOUT" envDefault:"90s"`
	Persona       string        `env:"CLIMAQA_PERSONA" envDefault:"climate crisis specialist"`
	DefaultRole   string        `env:"CLIMAQA_DEFAULT_ROLE" envDefault:"standard_user"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "climaqa.db")
}

func (c AppConfig) GetIndexPath() string {
	return filepath.Join(c.RuntimePath, "index", "passages.gob.gz")
}

func (c AppConfig) GetRolesPath() string {
	return filepath.Join(c.RuntimePath, "roles.yaml")
}
