package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/climaqa/internal/transport/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		p := tea.NewProgram(tui.New(ctx, a.chats, a.router), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
