package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/pkg/log"
)

// ChatService is the part of chat.Service the API exposes.
type ChatService interface {
	StartChat(ctx context.Context, userID, question string, opts ...chat.AskOption) (core.Chat, core.Result, error)
	Ask(ctx context.Context, userID, chatID, question string, opts ...chat.AskOption) (core.Result, error)
	ListChats(ctx context.Context, userID string) ([]core.Chat, error)
	GetChat(ctx context.Context, userID, chatID string) (chat.Detail, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
	UpsertUser(ctx context.Context, user core.User) (core.User, error)
}

type Server struct {
	cfg    *config.HTTPConfig
	chats  ChatService
	srv    *http.Server
	router chi.Router
}

func NewServer(cfg *config.HTTPConfig, chats ChatService, gatherer prometheus.Gatherer) *Server {
	s := &Server{cfg: cfg, chats: chats}
	s.router = s.routes(gatherer)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", userHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      c.Handler(s.router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Put("/users/{userID}", s.handlePutUser)
		r.Get("/chats", s.handleListChats)
		r.Post("/chats", s.handleCreateChat)
		r.Get("/chats/{chatID}", s.handleGetChat)
		r.Post("/chats/{chatID}/questions", s.handleAsk)
		r.Delete("/chats/{chatID}", s.handleDeleteChat)
	})

	return r
}

// Handler exposes the full handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("HTTP API listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
