package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAsker struct {
	userID, session, question, role string

	res core.Result
	err error
}

func (s *stubAsker) AskSession(_ context.Context, userID, sessionID, question string, opts ...chat.AskOption) (core.Result, error) {
	var o chat.AskOptions
	for _, opt := range opts {
		opt(&o)
	}
	s.userID, s.session, s.question, s.role = userID, sessionID, question, o.Role
	return s.res, s.err
}

func newClient(t *testing.T, asker Asker) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(NewServer(asker).MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Start(ctx))

	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "0"}
	_, err = c.Initialize(ctx, init)
	require.NoError(t, err)

	return c
}

func callAsk(t *testing.T, c *client.Client, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = ToolAsk
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestServer_ListsAskTool(t *testing.T) {
	c := newClient(t, &stubAsker{})

	tools, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, ToolAsk, tools.Tools[0].Name)
	assert.Equal(t, []string{"question"}, tools.Tools[0].InputSchema.Required)
}

func TestServer_Ask(t *testing.T) {
	asker := &stubAsker{res: core.Result{
		Answer:   "Heat waves.",
		Metadata: []core.AnswerMetadata{{PageNumber: "12", SourceFile: "plan.txt"}},
		Label:    core.LabelSpecific,
	}}
	c := newClient(t, asker)

	res := callAsk(t, c, map[string]any{"question": "What risks?", "session": "s1", "role": "municipal_manager"})

	assert.False(t, res.IsError)
	assert.Equal(t, "Heat waves.\n\nSources:\n- plan.txt, page 12", text(t, res))
	assert.Equal(t, UserID, asker.userID)
	assert.Equal(t, "s1", asker.session)
	assert.Equal(t, "What risks?", asker.question)
	assert.Equal(t, "municipal_manager", asker.role)
}

func TestServer_AskDefaults(t *testing.T) {
	asker := &stubAsker{res: core.Result{Answer: core.FallbackAnswer, Metadata: []core.AnswerMetadata{}}}
	c := newClient(t, asker)

	res := callAsk(t, c, map[string]any{"question": "Anything?"})

	assert.Equal(t, core.FallbackAnswer, text(t, res))
	assert.Equal(t, DefaultSession, asker.session)
	assert.Empty(t, asker.role)
}

func TestServer_AskErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		err  error
		want string
	}{
		{"missing question", map[string]any{}, nil, "question"},
		{"invalid question", map[string]any{"question": " "}, core.ErrInvalidQuestion, "question must not be empty"},
		{
			name: "pipeline failure",
			args: map[string]any{"question": "q"},
			err:  core.NewPipelineError("retrieving", core.ErrRetrieval, fmt.Errorf("%w: %w", core.ErrRetrieval, errors.New("index down"))),
			want: "answer service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, &stubAsker{err: tt.err})

			res := callAsk(t, c, tt.args)

			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.want)
			assert.NotContains(t, text(t, res), "index down")
		})
	}
}
