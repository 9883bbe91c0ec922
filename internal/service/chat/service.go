package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/pkg/log"
)

const titleLength = 21

// Asker is the question answering pipeline.
type Asker interface {
	Ask(ctx context.Context, sessionID, role, question string) (core.Result, error)
}

// Detail is a chat with its full conversation.
type Detail struct {
	core.Chat
	Turns []core.Turn `json:"conversation"`
}

type AskOptions struct {
	Role string
}

type AskOption func(*AskOptions)

// WithRole overrides the role stored for the user. An empty role keeps it.
func WithRole(role string) AskOption {
	return func(o *AskOptions) {
		o.Role = role
	}
}

// Service keeps chats and users around the pipeline.
// The chat id is the pipeline session id.
type Service struct {
	asker       Asker
	users       core.UserRepository
	chats       core.ChatRepository
	history     core.HistoryRepository
	defaultRole string

	newID func() string
	now   func() time.Time
}

func NewService(
	asker Asker,
	users core.UserRepository,
	chats core.ChatRepository,
	history core.HistoryRepository,
	defaultRole string,
) *Service {
	return &Service{
		asker:       asker,
		users:       users,
		chats:       chats,
		history:     history,
		defaultRole: defaultRole,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// ChatTitle is the first characters of the question followed by an ellipsis.
func ChatTitle(question string) string {
	r := []rune(strings.TrimSpace(question))
	if len(r) > titleLength {
		r = r[:titleLength]
	}
	return strings.TrimSpace(string(r)) + "..."
}

// StartChat creates a chat and asks its first question. The chat is removed
// again when the ask fails.
func (s *Service) StartChat(ctx context.Context, userID, question string, opts ...AskOption) (core.Chat, core.Result, error) {
	if strings.TrimSpace(question) == "" {
		return core.Chat{}, core.Result{}, core.ErrInvalidQuestion
	}
	if err := s.users.EnsureUser(ctx, core.User{ID: userID, CreatedAt: s.now()}); err != nil {
		return core.Chat{}, core.Result{}, err
	}

	c := core.Chat{
		ID:        s.newID(),
		UserID:    userID,
		Title:     ChatTitle(question),
		CreatedAt: s.now().UTC(),
	}
	if err := s.chats.CreateChat(ctx, c); err != nil {
		return core.Chat{}, core.Result{}, err
	}

	res, err := s.ask(ctx, userID, c.ID, question, opts)
	if err != nil {
		if derr := s.chats.DeleteChat(context.WithoutCancel(ctx), c.ID); derr != nil {
			log.FromCtx(ctx).Error().Err(derr).Str("chat", c.ID).Msg("failed to remove chat after failed ask")
		}
		return core.Chat{}, core.Result{}, err
	}
	return c, res, nil
}

// Ask continues a chat owned by userID.
func (s *Service) Ask(ctx context.Context, userID, chatID, question string, opts ...AskOption) (core.Result, error) {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return core.Result{}, err
	}
	return s.ask(ctx, userID, chatID, question, opts)
}

// AskSession asks within a session id chosen by the transport, creating
// the user and chat on first use. A chat created here is removed again
// when its first ask fails.
func (s *Service) AskSession(ctx context.Context, userID, sessionID, question string, opts ...AskOption) (core.Result, error) {
	if strings.TrimSpace(question) == "" {
		return core.Result{}, core.ErrInvalidQuestion
	}
	if err := s.users.EnsureUser(ctx, core.User{ID: userID, CreatedAt: s.now()}); err != nil {
		return core.Result{}, err
	}

	c, created, err := s.chats.EnsureChat(ctx, core.Chat{
		ID:        sessionID,
		UserID:    userID,
		Title:     ChatTitle(question),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return core.Result{}, err
	}
	if c.UserID != userID {
		return core.Result{}, core.ErrChatNotFound
	}

	res, err := s.ask(ctx, userID, sessionID, question, opts)
	if err != nil && created {
		// a concurrent ask may already have stored a turn, so only an empty chat goes
		if derr := s.chats.DeleteEmptyChat(context.WithoutCancel(ctx), sessionID); derr != nil {
			log.FromCtx(ctx).Error().Err(derr).Str("chat", sessionID).Msg("failed to remove chat after failed ask")
		}
	}
	return res, err
}

func (s *Service) ask(ctx context.Context, userID, chatID, question string, opts []AskOption) (core.Result, error) {
	o := AskOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	role := o.Role
	if role == "" {
		stored, err := s.users.ResolveRole(ctx, userID)
		if err != nil {
			// unknown roles already fall back, so a lookup failure does too
			log.FromCtx(ctx).Warn().Err(err).Str("user", userID).Msg("failed to resolve role")
		}
		role = stored
	}
	if role == "" {
		role = s.defaultRole
	}

	return s.asker.Ask(ctx, chatID, role, question)
}

func (s *Service) ListChats(ctx context.Context, userID string) ([]core.Chat, error) {
	return s.chats.ListChats(ctx, userID)
}

func (s *Service) GetChat(ctx context.Context, userID, chatID string) (Detail, error) {
	c, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return Detail{}, err
	}

	turns, err := s.history.LoadHistory(ctx, chatID, 0)
	if err != nil {
		return Detail{}, fmt.Errorf("load conversation: %w", err)
	}
	return Detail{Chat: c, Turns: turns}, nil
}

func (s *Service) DeleteChat(ctx context.Context, userID, chatID string) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chats.DeleteChat(ctx, chatID)
}

// ResetSession forgets a transport session. Missing sessions are not an error.
func (s *Service) ResetSession(ctx context.Context, userID, sessionID string) error {
	err := s.DeleteChat(ctx, userID, sessionID)
	if errors.Is(err, core.ErrChatNotFound) {
		return nil
	}
	return err
}

// UpsertUser creates or updates a user and returns the stored record.
func (s *Service) UpsertUser(ctx context.Context, user core.User) (core.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	if err := s.users.EnsureUser(ctx, user); err != nil {
		return core.User{}, err
	}
	return s.users.GetUser(ctx, user.ID)
}

func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	if err := s.users.EnsureUser(ctx, core.User{ID: userID, CreatedAt: s.now()}); err != nil {
		return err
	}
	return s.users.SetRole(ctx, userID, role)
}

// Role returns the effective role of a user.
func (s *Service) Role(ctx context.Context, userID string) (string, error) {
	role, err := s.users.ResolveRole(ctx, userID)
	if err != nil {
		return "", err
	}
	if role == "" {
		role = s.defaultRole
	}
	return role, nil
}

// ownedChat hides chats of other users behind ErrChatNotFound.
func (s *Service) ownedChat(ctx context.Context, userID, chatID string) (core.Chat, error) {
	c, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return core.Chat{}, err
	}
	if c.UserID != userID {
		return core.Chat{}, core.ErrChatNotFound
	}
	return c, nil
}
