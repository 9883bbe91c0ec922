package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/log"
)

// Store rehydrates and commits session history through the repository.
type Store struct {
	repo   core.HistoryRepository
	window int
}

// NewStore keeps the latest window turns when loading; window <= 0 keeps all.
func NewStore(repo core.HistoryRepository, window int) *Store {
	return &Store{repo: repo, window: window}
}

func (s *Store) Load(ctx context.Context, sessionID string) (History, error) {
	turns, err := s.repo.LoadHistory(ctx, sessionID, s.window)
	if err != nil {
		return History{}, fmt.Errorf("load history: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("session", sessionID).
		Int("turns", len(turns)).
		Msg("history loaded")

	return NewHistory(turns...), nil
}

// Commit persists turn. It is the commit point of an ask.
func (s *Store) Commit(ctx context.Context, sessionID string, turn core.Turn) error {
	if err := s.repo.AppendTurn(ctx, sessionID, turn); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}
