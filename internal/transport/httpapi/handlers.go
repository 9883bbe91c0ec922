package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/pkg/log"
)

type questionRequest struct {
	Question string `json:"question"`
	Role     string `json:"role,omitempty"`
}

type userRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type answerResponse struct {
	ChatID   string                `json:"chat_id"`
	Title    string                `json:"title,omitempty"`
	Answer   string                `json:"answer"`
	Metadata []core.AnswerMetadata `json:"metadata"`
	Label    core.Label            `json:"label"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID != userFromCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot modify another user")
		return
	}

	var req userRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.chats.UpsertUser(r.Context(), core.User{ID: userID, Name: req.Name, Role: req.Role})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.ListChats(r.Context(), userFromCtx(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !decode(w, r, &req) {
		return
	}

	c, res, err := s.chats.StartChat(r.Context(), userFromCtx(r.Context()), req.Question, chat.WithRole(req.Role))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, answerResponse{
		ChatID:   c.ID,
		Title:    c.Title,
		Answer:   res.Answer,
		Metadata: res.Metadata,
		Label:    res.Label,
	})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	detail, err := s.chats.GetChat(r.Context(), userFromCtx(r.Context()), chi.URLParam(r, "chatID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !decode(w, r, &req) {
		return
	}

	chatID := chi.URLParam(r, "chatID")
	res, err := s.chats.Ask(r.Context(), userFromCtx(r.Context()), chatID, req.Question, chat.WithRole(req.Role))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{
		ChatID:   chatID,
		Answer:   res.Answer,
		Metadata: res.Metadata,
		Label:    res.Label,
	})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.chats.DeleteChat(r.Context(), userFromCtx(r.Context()), chi.URLParam(r, "chatID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps domain errors to statuses. Causes are logged, never returned.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrChatNotFound), errors.Is(err, core.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrServiceUnavailable):
		log.FromCtx(r.Context()).Error().Err(err).Msg("ask failed")
		writeError(w, http.StatusServiceUnavailable, core.ErrServiceUnavailable.Error())
	default:
		log.FromCtx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
