package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	turns     map[string][]core.Turn
	lastLimit int
	err       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{turns: make(map[string][]core.Turn)}
}

func (r *fakeRepo) LoadHistory(_ context.Context, sessionID string, limit int) ([]core.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	turns := r.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]core.Turn(nil), turns...), nil
}

func (r *fakeRepo) AppendTurn(_ context.Context, sessionID string, turn core.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.turns[sessionID] = append(r.turns[sessionID], turn)
	return nil
}

func TestHistory_AppendDoesNotMutate(t *testing.T) {
	t1 := core.Turn{Question: "Q1", Answer: "A1"}
	t2 := core.Turn{Question: "Q2", Answer: "A2"}

	h0 := NewHistory(t1)
	h1 := h0.Append(t2)
	h2 := h0.Append(core.Turn{Question: "other"})

	assert.Equal(t, 1, h0.Len())
	assert.Equal(t, []core.Turn{t1, t2}, h1.Turns())
	assert.Equal(t, "other", h2.Turns()[1].Question)

	turns := h1.Turns()
	turns[0].Question = "changed"
	assert.Equal(t, "Q1", h1.Turns()[0].Question)
}

func TestStore_LoadCommitOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	store := NewStore(repo, 0)

	require.NoError(t, store.Commit(ctx, "s1", core.Turn{Question: "Q1"}))
	require.NoError(t, store.Commit(ctx, "s1", core.Turn{Question: "Q2"}))
	require.NoError(t, store.Commit(ctx, "s2", core.Turn{Question: "elsewhere"}))

	h, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	turns := h.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "Q1", turns[0].Question)
	assert.Equal(t, "Q2", turns[1].Question)
}

func TestStore_Window(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, 1)

	_, err := store.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastLimit)
}

func TestStore_Errors(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("disk gone")
	store := NewStore(repo, 0)

	_, err := store.Load(context.Background(), "s")
	require.ErrorIs(t, err, repo.err)

	err = store.Commit(context.Background(), "s", core.Turn{})
	require.ErrorIs(t, err, repo.err)
}

func TestKeyedLocker_Serializes(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "s")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, "s")
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	// other sessions are independent
	other, err := l.Lock(ctx, "other")
	require.NoError(t, err)
	other()

	unlock()
	unlock() // idempotent
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}

	require.Eventually(t, func() bool { return l.size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestKeyedLocker_ContextCancelled(t *testing.T) {
	l := NewKeyedLocker()

	unlock, err := l.Lock(context.Background(), "s")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "s")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
