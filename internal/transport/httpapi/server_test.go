package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChats struct {
	askErr   error
	lastUser string
	lastRole string
	chats    map[string]core.Chat
}

func newStubChats() *stubChats {
	return &stubChats{chats: map[string]core.Chat{
		"c1": {ID: "c1", UserID: "u1", Title: "What is..."},
	}}
}

func role(opts []chat.AskOption) string {
	var o chat.AskOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.Role
}

func (s *stubChats) StartChat(_ context.Context, userID, question string, opts ...chat.AskOption) (core.Chat, core.Result, error) {
	s.lastUser, s.lastRole = userID, role(opts)
	if strings.TrimSpace(question) == "" {
		return core.Chat{}, core.Result{}, core.ErrInvalidQuestion
	}
	if s.askErr != nil {
		return core.Chat{}, core.Result{}, s.askErr
	}
	c := core.Chat{ID: "new", UserID: userID, Title: chat.ChatTitle(question)}
	return c, core.Result{Answer: "answer", Metadata: []core.AnswerMetadata{{PageNumber: "2", SourceFile: "a.txt"}}, Label: core.LabelSpecific}, nil
}

func (s *stubChats) Ask(_ context.Context, userID, chatID, question string, opts ...chat.AskOption) (core.Result, error) {
	s.lastUser, s.lastRole = userID, role(opts)
	if c, ok := s.chats[chatID]; !ok || c.UserID != userID {
		return core.Result{}, core.ErrChatNotFound
	}
	if s.askErr != nil {
		return core.Result{}, s.askErr
	}
	return core.Result{Answer: core.FallbackAnswer, Metadata: []core.AnswerMetadata{}, Label: core.LabelSpecific}, nil
}

func (s *stubChats) ListChats(_ context.Context, userID string) ([]core.Chat, error) {
	out := []core.Chat{}
	for _, c := range s.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubChats) GetChat(_ context.Context, userID, chatID string) (chat.Detail, error) {
	c, ok := s.chats[chatID]
	if !ok || c.UserID != userID {
		return chat.Detail{}, core.ErrChatNotFound
	}
	return chat.Detail{Chat: c, Turns: []core.Turn{{Question: "What is it?", Answer: "It is.", Metadata: []core.AnswerMetadata{}}}}, nil
}

func (s *stubChats) DeleteChat(_ context.Context, userID, chatID string) error {
	c, ok := s.chats[chatID]
	if !ok || c.UserID != userID {
		return core.ErrChatNotFound
	}
	delete(s.chats, chatID)
	return nil
}

func (s *stubChats) UpsertUser(_ context.Context, user core.User) (core.User, error) {
	return user, nil
}

func newTestServer(t *testing.T, chats ChatService) http.Handler {
	t.Helper()
	cfg := &config.HTTPConfig{Addr: ":0", CORSOrigins: []string{"*"}}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "climaqa_test_total", Help: "test"}))
	return NewServer(cfg, chats, reg).Handler()
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		user       string
		body       string
		askErr     error
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", "", nil, http.StatusOK, `"status":"ok"`},
		{"metrics", http.MethodGet, "/metrics", "", "", nil, http.StatusOK, "climaqa_test_total"},
		{"missing user", http.MethodGet, "/chats", "", "", nil, http.StatusUnauthorized, "X-User-ID"},
		{"list", http.MethodGet, "/chats", "u1", "", nil, http.StatusOK, `"id":"c1"`},
		{"create", http.MethodPost, "/chats", "u1", `{"question":"What does the adaptation plan target?"}`, nil, http.StatusCreated, `"title":"What does the adaptat..."`},
		{"create empty question", http.MethodPost, "/chats", "u1", `{"question":"  "}`, nil, http.StatusBadRequest, "question must not be empty"},
		{"create bad json", http.MethodPost, "/chats", "u1", `{"question":`, nil, http.StatusBadRequest, "invalid JSON"},
		{"create unavailable", http.MethodPost, "/chats", "u1", `{"question":"q"}`, core.NewPipelineError("generating_direct", core.ErrGeneration, fmt.Errorf("secret upstream detail")), http.StatusServiceUnavailable, "answer service unavailable"},
		{"get", http.MethodGet, "/chats/c1", "u1", "", nil, http.StatusOK, `"conversation":[`},
		{"get foreign", http.MethodGet, "/chats/c1", "u2", "", nil, http.StatusNotFound, "chat not found"},
		{"ask fallback", http.MethodPost, "/chats/c1/questions", "u1", `{"question":"q"}`, nil, http.StatusOK, `"metadata":[]`},
		{"ask unknown chat", http.MethodPost, "/chats/zzz/questions", "u1", `{"question":"q"}`, nil, http.StatusNotFound, "chat not found"},
		{"put user", http.MethodPut, "/users/u1", "u1", `{"name":"Ana","role":"municipal_manager"}`, nil, http.StatusOK, `"role":"municipal_manager"`},
		{"put other user", http.MethodPut, "/users/u2", "u1", `{"name":"x"}`, nil, http.StatusForbidden, "another user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats := newStubChats()
			chats.askErr = tt.askErr
			rec := do(t, newTestServer(t, chats), tt.method, tt.path, tt.user, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "secret upstream detail")
			assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
		})
	}
}

func TestServer_RoleOverrideIsForwarded(t *testing.T) {
	chats := newStubChats()
	rec := do(t, newTestServer(t, chats), http.MethodPost, "/chats/c1/questions", "u1", `{"question":"q","role":"environmental_specialist"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "u1", chats.lastUser)
	assert.Equal(t, "environmental_specialist", chats.lastRole)

	var resp answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.FallbackAnswer, resp.Answer)
	assert.Equal(t, "c1", resp.ChatID)
}

func TestServer_DeleteChat(t *testing.T) {
	chats := newStubChats()
	h := newTestServer(t, chats)

	rec := do(t, h, http.MethodDelete, "/chats/c1", "u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/chats/c1", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newTestServer(t, newStubChats())

	req := httptest.NewRequest(http.MethodOptions, "/chats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", userHeader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
