package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/philippgille/chromem-go"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/log"
)

const reloadDebounce = 250 * time.Millisecond

// Reloader serves queries from the current artifact and swaps in a freshly
// imported index whenever the artifact file is replaced.
type Reloader struct {
	path       string
	collection string
	ef         chromem.EmbeddingFunc
	current    atomic.Pointer[Index]
	watcher    *fsnotify.Watcher
}

func NewReloader(path, collection string, ef chromem.EmbeddingFunc) (*Reloader, error) {
	idx, err := OpenIndex(path, collection, ef)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	r := &Reloader{
		path:       filepath.Clean(path),
		collection: collection,
		ef:         ef,
		watcher:    w,
	}
	r.current.Store(idx)
	return r, nil
}

func (r *Reloader) Query(ctx context.Context, text string, k int) ([]core.Passage, error) {
	return r.current.Load().Query(ctx, text, k)
}

func (r *Reloader) Count() int {
	return r.current.Load().Count()
}

// Start blocks until ctx is done or the watcher is closed.
func (r *Reloader) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	// Watch the directory: the builder renames a new file over the artifact.
	if err := r.watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(r.path), err)
	}
	logger.Info().Str("path", r.path).Msg("watching passage index")

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path || !(event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("index watcher error")
		case <-fire:
			fire = nil
			r.reload(ctx)
		}
	}
}

func (r *Reloader) Shutdown(ctx context.Context) error {
	return r.watcher.Close()
}

func (r *Reloader) reload(ctx context.Context) {
	logger := log.FromCtx(ctx)

	idx, err := OpenIndex(r.path, r.collection, r.ef)
	if err != nil {
		logger.Error().Err(err).Msg("failed to reload passage index, keeping previous")
		return
	}

	r.current.Store(idx)
	logger.Info().Int("passages", idx.Count()).Msg("passage index reloaded")
}
