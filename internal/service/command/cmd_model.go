package command

import (
	"context"

	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
)

type ModelCommand struct {
	cfg *config.LLMConfig
}

func NewModelCommand(cfg *config.LLMConfig) *ModelCommand {
	return &ModelCommand{
		cfg: cfg,
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show the models answering questions"
}

func (c *ModelCommand) Execute(_ context.Context, _ core.CommandRequest, _ []string) (string, error) {
	classifier := c.cfg.ClassifierModel
	if classifier == "" {
		classifier = c.cfg.Model
	}
	return newReply("Current Model").
		fields(
			"Provider", c.cfg.Provider,
			"Model", c.cfg.Model,
			"Classifier", classifier,
		).
		String(), nil
}
