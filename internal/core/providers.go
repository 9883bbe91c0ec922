package core

import "context"

// GenerativeModel completes a single prompt.
type GenerativeModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

// PassageIndex returns up to k passages ordered by descending similarity.
type PassageIndex interface {
	Query(ctx context.Context, text string, k int) ([]Passage, error)
}

// SessionLocker serializes asks for one session.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}
