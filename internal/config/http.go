package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

type HTTPConfig struct {
	Addr         string        `env:"CLIMAQA_HTTP_ADDR" envDefault:":8080"`
	CORSOrigins  []string      `env:"CLIMAQA_HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ReadTimeout  time.Duration `env:"CLIMAQA_HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"CLIMAQA_HTTP_WRITE_TIMEOUT" envDefault:"120s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
