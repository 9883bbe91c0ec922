package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/climaqa/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"CLIMAQA_TELEGRAM_TOKEN,required,notEmpty" secret:"true"`
	// OwnerID restricts the bot to one Telegram user. 0 allows everyone.
	OwnerID int64 `env:"CLIMAQA_TELEGRAM_OWNER_ID"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}
