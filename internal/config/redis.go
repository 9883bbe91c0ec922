package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

// RedisConfig enables cross-process session locking when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"CLIMAQA_REDIS_ADDR"`
	Password string        `env:"CLIMAQA_REDIS_PASSWORD" secret:"true"`
	DB       int           `env:"CLIMAQA_REDIS_DB" envDefault:"0"`
	LockTTL  time.Duration `env:"CLIMAQA_REDIS_LOCK_TTL" envDefault:"2m"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}
