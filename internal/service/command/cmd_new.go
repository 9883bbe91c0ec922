package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
)

type NewCommand struct {
	sessions SessionService
}

func NewNewCommand(sessions SessionService) *NewCommand {
	return &NewCommand{
		sessions: sessions,
	}
}

func (c *NewCommand) Name() string {
	return "new"
}

func (c *NewCommand) Description() string {
	return "Start a new conversation"
}

func (c *NewCommand) Execute(ctx context.Context, req core.CommandRequest, _ []string) (string, error) {
	if err := c.sessions.ResetSession(ctx, req.UserID, req.SessionID); err != nil {
		return "", fmt.Errorf("failed to reset conversation: %w", err)
	}
	return done("Conversation cleared"), nil
}
