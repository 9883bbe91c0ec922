package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/climaqa/internal/transport/mcp"
	"github.com/sandevgo/climaqa/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the ask tool over MCP stdio",
	Long:  `Runs an MCP server on stdin/stdout exposing the 'ask' tool. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		if err := mcp.NewServer(a.chats).Start(ctx); err != nil {
			return err
		}
		log.FromCtx(ctx).Info().Msg("mcp server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
