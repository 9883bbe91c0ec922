package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
)

type HelpCommand struct {
	router core.CmdRouter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{
		router: router,
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List commands"
}

func (c *HelpCommand) Execute(_ context.Context, _ core.CommandRequest, _ []string) (string, error) {
	var items []string
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("/%s: %s", cmd.Name(), cmd.Description()))
	}
	return newReply("Commands").
		list("", items).
		tip("Anything else you type is answered as a question.").
		String(), nil
}
