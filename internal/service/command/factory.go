package command

import (
	"context"

	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
)

// SessionService is the part of chat.Service the commands use.
type SessionService interface {
	ResetSession(ctx context.Context, userID, sessionID string) error
	SetRole(ctx context.Context, userID, role string) error
	Role(ctx context.Context, userID string) (string, error)
}

// RoleCatalog lists the roles the pipeline has instructions for.
type RoleCatalog interface {
	Roles() []string
	Known(role string) bool
}

// NewRouter wires every chat command, /help included.
func NewRouter(
	sessions SessionService,
	roles RoleCatalog,
	llm *config.LLMConfig,
) *Router {
	r := New([]core.Command{
		NewNewCommand(sessions),
		NewRoleCommand(sessions, roles),
		NewModelCommand(llm),
	})
	r.Register(NewHelpCommand(r))
	return r
}
