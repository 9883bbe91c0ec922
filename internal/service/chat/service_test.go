package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/observability/metrics"
	"github.com/sandevgo/climaqa/internal/service/memory"
	"github.com/sandevgo/climaqa/internal/service/qa"
	"github.com/sandevgo/climaqa/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routedModel answers classification prompts with label and everything else
// with answer, or fails generation when genErr is set.
type routedModel struct {
	mu      sync.Mutex
	label   string
	answer  string
	genErr  error
	prompts []string
}

func (m *routedModel) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if strings.HasSuffix(prompt, "Classification:") {
		return m.label, nil
	}
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.answer, nil
}

type fixedIndex []core.Passage

func (i fixedIndex) Query(context.Context, string, int) ([]core.Passage, error) {
	return append([]core.Passage(nil), i...), nil
}

type testEnv struct {
	svc   *Service
	model *routedModel
	users *sqlite.UserRepo
	chats *sqlite.ChatRepo
}

func newTestEnv(t *testing.T, index fixedIndex) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "climaqa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	model := &routedModel{label: "specific", answer: "Grounded answer."}
	history := sqlite.NewHistoryRepo(db)
	orch := qa.NewOrchestrator(
		qa.Config{TopK: 5, Threshold: 0.75},
		qa.NewClassifier(model),
		qa.NewRetriever(index),
		qa.NewRoleAdapter(qa.DefaultRoleTable()),
		qa.NewGenerator(model, "climate crisis specialist"),
		memory.NewStore(history, 0),
		memory.NewKeyedLocker(),
		metrics.NewPipelineMetrics(prometheus.NewRegistry()),
	)

	users := sqlite.NewUserRepo(db)
	chats := sqlite.NewChatRepo(db)
	return &testEnv{
		svc:   NewService(orch, users, chats, history, qa.RoleStandardUser),
		model: model,
		users: users,
		chats: chats,
	}
}

func TestChatTitle(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Hello", "Hello..."},
		{"What does the adaptation plan target?", "What does the adaptat..."},
		{"Twenty one characters here", "Twenty one characters..."},
		{"Como será o clima em São Paulo?", "Como será o clima em..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChatTitle(tt.question), tt.question)
	}
}

func TestService_StartChatAndContinue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, fixedIndex{
		{ID: "a", Content: "plan text", SourceFile: "plan.txt", PageNumber: 12, Score: 0.82},
		{ID: "b", Content: "annex text", SourceFile: "annex.txt", PageNumber: 3, Score: 0.77},
		{ID: "c", Content: "noise", SourceFile: "noise.txt", PageNumber: 1, Score: 0.4},
	})

	c, res, err := env.svc.StartChat(ctx, "u1", "What does the adaptation plan target?")
	require.NoError(t, err)
	assert.Equal(t, "What does the adaptat...", c.Title)
	assert.Equal(t, "Grounded answer.", res.Answer)
	assert.Len(t, res.Metadata, 2)

	_, err = env.svc.Ask(ctx, "u1", c.ID, "And the budget?")
	require.NoError(t, err)

	detail, err := env.svc.GetChat(ctx, "u1", c.ID)
	require.NoError(t, err)
	require.Len(t, detail.Turns, 2)
	assert.Equal(t, "What does the adaptation plan target?", detail.Turns[0].Question)
	assert.Equal(t, []core.AnswerMetadata{
		{PageNumber: "12", SourceFile: "plan.txt"},
		{PageNumber: "3", SourceFile: "annex.txt"},
	}, detail.Turns[0].Metadata)
	assert.Equal(t, "And the budget?", detail.Turns[1].Question)

	chats, err := env.svc.ListChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, c.ID, chats[0].ID)
}

func TestService_StartChatFailureRemovesChat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, fixedIndex{{ID: "a", Content: "x", SourceFile: "f", PageNumber: 1, Score: 0.9}})
	env.model.genErr = errors.New("upstream 503")

	_, _, err := env.svc.StartChat(ctx, "u1", "What is the plan?")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)

	chats, err := env.svc.ListChats(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestService_StartChatRejectsEmptyQuestion(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.svc.StartChat(context.Background(), "u1", "  ")
	require.ErrorIs(t, err, core.ErrInvalidQuestion)

	chats, err := env.svc.ListChats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestService_Fallback(t *testing.T) {
	env := newTestEnv(t, fixedIndex{{ID: "a", Content: "x", SourceFile: "f", PageNumber: 1, Score: 0.5}})

	_, res, err := env.svc.StartChat(context.Background(), "u1", "What does the adaptation plan target?")
	require.NoError(t, err)
	assert.Equal(t, core.FallbackAnswer, res.Answer)
	assert.Empty(t, res.Metadata)
}

func TestService_ForeignChatsAreHidden(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.model.label = "general"

	c, _, err := env.svc.StartChat(ctx, "owner", "Hello")
	require.NoError(t, err)

	_, err = env.svc.Ask(ctx, "intruder", c.ID, "Hi")
	require.ErrorIs(t, err, core.ErrChatNotFound)
	_, err = env.svc.GetChat(ctx, "intruder", c.ID)
	require.ErrorIs(t, err, core.ErrChatNotFound)
	require.ErrorIs(t, env.svc.DeleteChat(ctx, "intruder", c.ID), core.ErrChatNotFound)
	_, err = env.svc.AskSession(ctx, "intruder", c.ID, "Hi")
	require.ErrorIs(t, err, core.ErrChatNotFound)

	require.NoError(t, env.svc.DeleteChat(ctx, "owner", c.ID))
	_, err = env.svc.GetChat(ctx, "owner", c.ID)
	require.ErrorIs(t, err, core.ErrChatNotFound)
}

func TestService_AskSessionCreatesAndResets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.model.label = "general"

	_, err := env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "Hello there")
	require.NoError(t, err)
	_, err = env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "Again")
	require.NoError(t, err)

	detail, err := env.svc.GetChat(ctx, "tg-1", "telegram-1-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello there...", detail.Title)
	assert.Len(t, detail.Turns, 2)

	require.NoError(t, env.svc.ResetSession(ctx, "tg-1", "telegram-1-1"))
	require.NoError(t, env.svc.ResetSession(ctx, "tg-1", "telegram-1-1"))

	_, err = env.svc.GetChat(ctx, "tg-1", "telegram-1-1")
	require.ErrorIs(t, err, core.ErrChatNotFound)
}

func TestService_AskSessionConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.model.label = "general"

	const askers = 8
	errs := make([]error, askers)
	var wg sync.WaitGroup
	for i := range askers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "Hello there")
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "asker %d", i)
	}
	detail, err := env.svc.GetChat(ctx, "tg-1", "telegram-1-1")
	require.NoError(t, err)
	assert.Len(t, detail.Turns, askers)
}

func TestService_AskSessionFailureRemovesNewChat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, fixedIndex{{ID: "a", Content: "x", SourceFile: "f", PageNumber: 1, Score: 0.9}})
	env.model.genErr = errors.New("upstream 503")

	_, err := env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "What is the plan?")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)

	_, err = env.svc.GetChat(ctx, "tg-1", "telegram-1-1")
	require.ErrorIs(t, err, core.ErrChatNotFound)

	// an existing conversation survives a failed follow-up
	env.model.genErr = nil
	_, err = env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "What is the plan?")
	require.NoError(t, err)

	env.model.genErr = errors.New("upstream 503")
	_, err = env.svc.AskSession(ctx, "tg-1", "telegram-1-1", "And the budget?")
	require.ErrorIs(t, err, core.ErrServiceUnavailable)

	detail, err := env.svc.GetChat(ctx, "tg-1", "telegram-1-1")
	require.NoError(t, err)
	assert.Len(t, detail.Turns, 1)
}

func TestService_SharedTelegramChatKeepsSendersApart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.model.label = "general"

	_, err := env.svc.AskSession(ctx, "telegram-10", "telegram-500-10", "Hello from Ana")
	require.NoError(t, err)
	_, err = env.svc.AskSession(ctx, "telegram-11", "telegram-500-11", "Hello from Bo")
	require.NoError(t, err)

	// the same session under another sender is not visible
	_, err = env.svc.AskSession(ctx, "telegram-11", "telegram-500-10", "Hi")
	require.ErrorIs(t, err, core.ErrChatNotFound)

	for user, session := range map[string]string{"telegram-10": "telegram-500-10", "telegram-11": "telegram-500-11"} {
		detail, err := env.svc.GetChat(ctx, user, session)
		require.NoError(t, err)
		assert.Len(t, detail.Turns, 1, user)
	}
}

func TestService_RoleResolution(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	env.model.label = "general"

	role, err := env.svc.Role(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, qa.RoleStandardUser, role)

	_, err = env.svc.AskSession(ctx, "u1", "s1", "Hello")
	require.NoError(t, err)
	assert.Contains(t, env.model.prompts[len(env.model.prompts)-1], "simple, accessible language")

	require.NoError(t, env.svc.SetRole(ctx, "u1", qa.RoleMunicipalManager))
	_, err = env.svc.AskSession(ctx, "u1", "s1", "Hello")
	require.NoError(t, err)
	assert.Contains(t, env.model.prompts[len(env.model.prompts)-1], "municipal level")

	_, err = env.svc.AskSession(ctx, "u1", "s1", "Hello", WithRole(qa.RoleEnvironmentalSpecialist))
	require.NoError(t, err)
	assert.Contains(t, env.model.prompts[len(env.model.prompts)-1], "environmental terminology")
}

func TestService_UpsertUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	u, err := env.svc.UpsertUser(ctx, core.User{ID: "u1", Name: "Ana", Role: qa.RoleMunicipalManager})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, qa.RoleMunicipalManager, u.Role)

	u, err = env.svc.UpsertUser(ctx, core.User{ID: "u1", Role: qa.RoleStandardUser})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, qa.RoleStandardUser, u.Role)
}
