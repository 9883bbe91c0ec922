package main

import (

	"github.com/joho/godotenv"
	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/service/installer"
	"github.com/sandevgo/climaqa/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure climaqa interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		// run wizard (includes save step)
		runtimePath := config.GetRuntimePath()
		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := config.EnvPath(runtimePath)
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! Build the index with 'climaqa index --source <dir>', then run 'climaqa start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
