package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sandevgo/climaqa/internal/providers/rag"
	"github.com/sandevgo/climaqa/pkg/log"
	"github.com/spf13/cobra"
)

var (
	indexSource string
	indexOut    string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the passage index from a directory of documents",
	Long: `Reads .txt, .md and .html documents, splits them into overlapping passages,
embeds them and writes the index artifact served by 'climaqa start'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		ef, appCfg, ragCfg := newEmbeddingFunc(ctx)

		source := indexSource
		if source == "" {
			source = ragCfg.SourceDir
		}
		if source == "" {
			return fmt.Errorf("no source directory, pass --source or set CLIMAQA_RAG_SOURCE_DIR")
		}

		out := indexOut
		if out == "" {
			out = indexPath(appCfg, ragCfg)
		}

		builder, err := rag.NewBuilder(rag.BuildConfig{
			Collection: ragCfg.Collection,
			Chunker: rag.ChunkerConfig{
				MaxTokens:     ragCfg.ChunkTokens,
				OverlapTokens: ragCfg.ChunkOverlap,
			},
			SkipMarkers: ragCfg.SkipMarkers,
			Concurrency: ragCfg.Concurrency,
		}, ef)
		if err != nil {
			return err
		}

		stats, err := builder.Build(ctx, source, out)
		if err != nil {
			return err
		}

		logger.Info().
			Int("documents", stats.Documents).
			Int("pages", stats.Pages).
			Int("skipped_pages", stats.SkippedPages).
			Int("passages", stats.Passages).
			Str("path", out).
			Msg("passage index written")
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexSource, "source", "s", "", "directory with source documents")
	indexCmd.Flags().StringVarP(&indexOut, "out", "o", "", "index artifact path (default <runtime>/index/passages.gob.gz)")
	rootCmd.AddCommand(indexCmd)
}
