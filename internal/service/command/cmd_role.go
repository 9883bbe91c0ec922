package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/climaqa/internal/core"
)

type RoleCommand struct {
	sessions SessionService
	roles    RoleCatalog
}

func NewRoleCommand(sessions SessionService, roles RoleCatalog) *RoleCommand {
	return &RoleCommand{
		sessions: sessions,
		roles:    roles,
	}
}

func (c *RoleCommand) Name() string {
	return "role"
}

func (c *RoleCommand) Description() string {
	return "Show or change how answers are phrased for you"
}

func (c *RoleCommand) Execute(ctx context.Context, req core.CommandRequest, args []string) (string, error) {
	if len(args) == 0 {
		current, err := c.sessions.Role(ctx, req.UserID)
		if err != nil {
			return "", fmt.Errorf("failed to read role: %w", err)
		}
		return newReply("Current Role").
			fields("Role", current).
			list("Available", c.roles.Roles()).
			usage("/role [name]", "/role municipal_manager", "/role environmental_specialist").
			String(), nil
	}

	role := strings.ToLower(strings.Join(args, " "))
	if !c.roles.Known(role) {
		return "", fmt.Errorf("unknown role %q, see /role for the list", role)
	}

	if err := c.sessions.SetRole(ctx, req.UserID, role); err != nil {
		return "", fmt.Errorf("failed to set role: %w", err)
	}
	return done(fmt.Sprintf("Role changed to: `%s`", role)), nil
}
