package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/internal/service/ui"
)

const (
	UserID    = "local"
	SessionID = "cli-local"
)

// Asker is the part of chat.Service the terminal chat uses.
type Asker interface {
	AskSession(ctx context.Context, userID, sessionID, question string, opts ...chat.AskOption) (core.Result, error)
}

type entry struct {
	question string
	answer   string
	sources  []string
	failed   bool
}

type answerMsg struct {
	question string
	res      core.Result
	err      error
}

type commandMsg struct {
	output string
}

// Model is the Bubble Tea model of the terminal chat.
type Model struct {
	ctx      context.Context
	chats    Asker
	router   core.CmdRouter
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	entries  []entry
	status   string
	pending  bool
	ready    bool
}

func New(ctx context.Context, chats Asker, router core.CmdRouter) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the climate crisis, /help for commands"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		chats:    chats,
		router:   router,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}

	case answerMsg:
		m.pending = false
		e := entry{question: msg.question}
		switch {
		case errors.Is(msg.err, core.ErrInvalidQuestion):
			e.answer, e.failed = msg.err.Error(), true
		case msg.err != nil:
			e.answer, e.failed = "Answer service unavailable: "+msg.err.Error(), true
		default:
			e.answer, e.sources = msg.res.Answer, chat.Sources(msg.res.Metadata)
		}
		m.entries = append(m.entries, e)
		m.status = "Ready."
		m.refresh()
		return m, nil

	case commandMsg:
		m.entries = append(m.entries, entry{answer: msg.output})
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.pending {
		return m, nil
	}
	m.input.Reset()

	req := core.CommandRequest{SessionID: SessionID, UserID: UserID}
	if strings.HasPrefix(text, "/") {
		ctx, router := m.ctx, m.router
		return m, func() tea.Msg {
			out, _ := router.Execute(ctx, req, text)
			return commandMsg{output: out}
		}
	}

	m.pending = true
	m.status = "Thinking..."
	ctx, chats := m.ctx, m.chats
	ask := func() tea.Msg {
		res, err := chats.AskSession(ctx, req.UserID, req.SessionID, text)
		return answerMsg{question: text, res: res, err: err}
	}
	return m, tea.Batch(ask, m.spinner.Tick)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := statusStyle.Render(m.status)
	if m.pending {
		status = m.spinner.View() + " " + status
	}

	return ui.HeadingStyle.Render(core.AppName+" climate assistant") + "\n" +
		transcriptStyle.Render(m.viewport.View()) + "\n" +
		inputStyle.Render(m.input.View()) + "\n" +
		status
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return ui.DescStyle.Render("No questions yet.")
	}

	var sb strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		if e.question != "" {
			sb.WriteString(questionStyle.Render("You: " + e.question))
			sb.WriteString("\n")
		}
		if e.failed {
			sb.WriteString(errorStyle.Render(e.answer))
		} else {
			sb.WriteString(e.answer)
		}
		sb.WriteString("\n")
		for _, s := range e.sources {
			sb.WriteString(ui.DescStyle.Render(fmt.Sprintf("  › %s", s)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = ui.UsageStyle.Bold(true)
	errorStyle      = ui.ErrorStyle
	statusStyle     = ui.FlagStyle
)
