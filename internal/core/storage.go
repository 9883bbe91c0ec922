package core

import "context"

type HistoryRepository interface {
	// LoadHistory returns the latest limit turns in chronological order.
	// limit <= 0 returns every turn.
	LoadHistory(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	AppendTurn(ctx context.Context, sessionID string, turn Turn) error
}

type UserRepository interface {
	ResolveRole(ctx context.Context, userID string) (string, error)
	EnsureUser(ctx context.Context, user User) error
	SetRole(ctx context.Context, userID, role string) error
	GetUser(ctx context.Context, userID string) (User, error)
}

type ChatRepository interface {
	CreateChat(ctx context.Context, chat Chat) error
	// EnsureChat creates the chat unless its id exists and returns the
	// stored record. created reports whether this call inserted it.
	EnsureChat(ctx context.Context, chat Chat) (stored Chat, created bool, err error)
	GetChat(ctx context.Context, chatID string) (Chat, error)
	ListChats(ctx context.Context, userID string) ([]Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	// DeleteEmptyChat removes the chat only while it has no turns.
	DeleteEmptyChat(ctx context.Context, chatID string) error
}
