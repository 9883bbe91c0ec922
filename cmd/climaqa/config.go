package main

import (
	"fmt"

	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/service/ui"
	"github.com/sandevgo/climaqa/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		sections := []struct {
			name string
			cfg  any
		}{
			{"App", config.NewAppConfig(ctx)},
			{"LLM", config.NewLLMConfig(ctx)},
			{"RAG", config.NewRAGConfig(ctx)},
			{"HTTP", config.NewHTTPConfig(ctx)},
			{"Redis", config.NewRedisConfig(ctx)},
		}

		out := cmd.OutOrStdout()
		for _, s := range sections {
			content, err := env.MarshalEnv(s.cfg, env.Options{MaskSecrets: true})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.HeadingStyle.Render("# "+s.name))
			fmt.Fprintln(out, content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
