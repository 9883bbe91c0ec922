package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/internal/service/ui"
	"github.com/sandevgo/climaqa/internal/transport/tui"
	"github.com/spf13/cobra"
)

var (
	askSession string
	askRole    string
)

var askCmd = &cobra.Command{
	Use:   `ask "question"`,
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		var opts []chat.AskOption
		if askRole != "" {
			opts = append(opts, chat.WithRole(askRole))
		}

		res, err := a.chats.AskSession(ctx, tui.UserID, askSession, strings.Join(args, " "), opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Answer)
		if sources := chat.Sources(res.Metadata); len(sources) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.HeadingStyle.Render("Sources"))
			for _, s := range sources {
				fmt.Fprintln(out, ui.DescStyle.Render("  › "+s))
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", tui.SessionID, "conversation to continue")
	askCmd.Flags().StringVar(&askRole, "role", "", "answer for this role instead of the stored one")
	rootCmd.AddCommand(askCmd)
}
