package rag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/sandevgo/climaqa/pkg/log"
)

type BuildConfig struct {
	Collection  string
	Chunker     ChunkerConfig
	SkipMarkers []string
	Concurrency int
}

type BuildStats struct {
	Documents    int
	Pages        int
	SkippedPages int
	Passages     int
}

// Builder produces the passage index artifact offline.
type Builder struct {
	cfg     BuildConfig
	chunker *Chunker
	ef      chromem.EmbeddingFunc
}

func NewBuilder(cfg BuildConfig, ef chromem.EmbeddingFunc) (*Builder, error) {
	if cfg.Collection == "" {
		return nil, errors.New("builder: collection name is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	chunker, err := NewChunker(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg, chunker: chunker, ef: ef}, nil
}

// Build indexes every supported file under sourceDir and writes the artifact
// to outPath. The artifact is replaced atomically.
func (b *Builder) Build(ctx context.Context, sourceDir, outPath string) (BuildStats, error) {
	logger := log.FromCtx(ctx)
	var stats BuildStats
	var docs []chromem.Document

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != sourceDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !IsSupported(path) {
			logger.Debug().Str("path", path).Msg("skipping unsupported file")
			return nil
		}

		doc, err := LoadDocument(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			rel = doc.Name
		}

		stats.Documents++
		docs = append(docs, b.passages(rel, doc, &stats)...)
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walk %s: %w", sourceDir, err)
	}
	if len(docs) == 0 {
		return stats, fmt.Errorf("no passages found in %s", sourceDir)
	}

	db := chromem.NewDB()
	col, err := db.CreateCollection(b.cfg.Collection, nil, b.ef)
	if err != nil {
		return stats, fmt.Errorf("create collection: %w", err)
	}

	logger.Info().Int("passages", len(docs)).Msg("embedding passages")
	if err := col.AddDocuments(ctx, docs, b.cfg.Concurrency); err != nil {
		return stats, fmt.Errorf("add passages: %w", err)
	}

	if err := export(db, outPath); err != nil {
		return stats, err
	}

	stats.Passages = len(docs)
	return stats, nil
}

func (b *Builder) passages(rel string, doc Document, stats *BuildStats) []chromem.Document {
	var out []chromem.Document
	for _, page := range doc.Pages {
		text := CleanText(page.Text)
		if text == "" {
			continue
		}
		stats.Pages++
		if ShouldSkipPage(text, b.cfg.SkipMarkers) {
			stats.SkippedPages++
			continue
		}

		for _, chunk := range b.chunker.Chunk(text) {
			out = append(out, chromem.Document{
				ID:      fmt.Sprintf("%s#p%d#c%d", filepath.ToSlash(rel), page.Number, chunk.Index),
				Content: chunk.Text,
				Metadata: map[string]string{
					MetaFileName:   doc.Name,
					MetaPageNumber: strconv.Itoa(page.Number),
				},
			})
		}
	}
	return out
}

// export writes next to outPath and renames, so watchers never read a partial file.
func export(db *chromem.DB, outPath string) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := filepath.Join(dir, ".tmp-"+filepath.Base(outPath))
	if err := db.ExportToFile(tmp, true, ""); err != nil {
		return fmt.Errorf("export index: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		return fmt.Errorf("move index into place: %w", err)
	}
	return nil
}
