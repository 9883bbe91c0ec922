package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/pkg/log"
)

const (
	ToolAsk = "ask"

	// UserID owns every session opened through the tool server.
	UserID         = "mcp"
	DefaultSession = "mcp-default"
)

// Asker is the part of chat.Service the tool server uses.
type Asker interface {
	AskSession(ctx context.Context, userID, sessionID, question string, opts ...chat.AskOption) (core.Result, error)
}

// Server exposes the QA pipeline as an MCP tool over stdio.
type Server struct {
	chats Asker
	mcp   *server.MCPServer
	in    io.Reader
	out   io.Writer
}

func NewServer(chats Asker) *Server {
	s := &Server{
		chats: chats,
		mcp: server.NewMCPServer(
			core.AppName,
			core.AppVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		in:  os.Stdin,
		out: os.Stdout,
	}

	s.mcp.AddTool(mcp.NewTool(ToolAsk,
		mcp.WithDescription("Answer a question about the climate crisis using the indexed documents. "+
			"Questions in one session share conversation history."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to answer")),
		mcp.WithString("session", mcp.Description("Conversation id, defaults to "+DefaultSession)),
		mcp.WithString("role", mcp.Description("Audience role such as standard_user, environmental_specialist or municipal_manager")),
	), s.handleAsk)

	return s
}

// MCPServer returns the underlying server, used for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Start serves stdio until ctx is cancelled or stdin is closed.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, s.in, s.out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session := strings.TrimSpace(req.GetString("session", ""))
	if session == "" {
		session = DefaultSession
	}

	var opts []chat.AskOption
	if role := strings.TrimSpace(req.GetString("role", "")); role != "" {
		opts = append(opts, chat.WithRole(role))
	}

	ctx = log.WithStr(ctx, "session", session)
	res, err := s.chats.AskSession(ctx, UserID, session, question, opts...)
	switch {
	case errors.Is(err, core.ErrInvalidQuestion):
		return mcp.NewToolResultError("question must not be empty"), nil
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Msg("ask tool failed")
		return mcp.NewToolResultError("answer service unavailable"), nil
	}

	return mcp.NewToolResultText(formatResult(res)), nil
}

func formatResult(res core.Result) string {
	sources := chat.Sources(res.Metadata)
	if len(sources) == 0 {
		return res.Answer
	}
	return res.Answer + "\n\nSources:\n- " + strings.Join(sources, "\n- ")
}
