package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, req CommandRequest, input string) (string, bool)
	ListCommands() []Command
}

// CommandRequest identifies who issued a slash command and in which session.
type CommandRequest struct {
	SessionID string
	UserID    string
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, req CommandRequest, args []string) (string, error)
}
