package qa

import (
	"context"
	"sync"

	"github.com/sandevgo/climaqa/internal/core"
)

type stubModel struct {
	mu      sync.Mutex
	prompts []string
	fn      func(ctx context.Context, prompt string) (string, error)
}

func replying(answer string) *stubModel {
	return &stubModel{fn: func(context.Context, string) (string, error) { return answer, nil }}
}

func failing(err error) *stubModel {
	return &stubModel{fn: func(context.Context, string) (string, error) { return "", err }}
}

func (m *stubModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.fn(ctx, prompt)
}

func (m *stubModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *stubModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

type stubIndex struct {
	passages []core.Passage
	err      error
	queries  int
	lastK    int
}

func (i *stubIndex) Query(_ context.Context, _ string, k int) ([]core.Passage, error) {
	i.queries++
	i.lastK = k
	if i.err != nil {
		return nil, i.err
	}
	return append([]core.Passage(nil), i.passages...), nil
}

type memRepo struct {
	mu    sync.Mutex
	turns map[string][]core.Turn
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{turns: make(map[string][]core.Turn)}
}

func (r *memRepo) LoadHistory(_ context.Context, sessionID string, limit int) ([]core.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	turns := r.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]core.Turn(nil), turns...), nil
}

func (r *memRepo) AppendTurn(_ context.Context, sessionID string, turn core.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.turns[sessionID] = append(r.turns[sessionID], turn)
	return nil
}

func (r *memRepo) count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.turns[sessionID])
}

func passage(id string, score float64, file string, page int) core.Passage {
	return core.Passage{ID: id, Content: "content of " + id, SourceFile: file, PageNumber: page, Score: score}
}
