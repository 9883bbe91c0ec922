package installer

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selStyle      = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var errInterrupted = errors.New("climaqa installation interrupted")

// Step is one screen of the wizard. Update returns nil once the step is
// done, or a replacement step to branch.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// wizardSteps runs in order; steps that do not apply to the chosen
// provider or channel skip themselves.
func wizardSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewOllamaURLStep(),
		NewCustomURLStep(),
		NewAPIKeyStep(),
		NewModelStep(),
		NewEmbeddingStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
		NewInitializeFilesStep(),
	}
}

type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

type modelsMsg []list.Item
type errMsg error
type nextMsg struct{}

// next wakes a step that has nothing to wait for, so it can run or skip itself.
func next() tea.Msg { return nextMsg{} }

type wizard struct {
	steps     []Step
	pos       int
	state     *InstallState
	cancelled bool
	width     int
	height    int
}

func newWizard(runtimePath string, steps []Step) wizard {
	return wizard{steps: steps, state: NewInstallState(runtimePath)}
}

func (w wizard) done() bool {
	return w.pos >= len(w.steps)
}

func (w wizard) Init() tea.Cmd {
	if w.done() {
		return tea.Quit
	}
	return w.steps[w.pos].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			w.cancelled = true
			return w, tea.Quit
		}
	}
	if w.done() {
		return w, tea.Quit
	}

	step, cmd := w.steps[w.pos].Update(msg, w.state, w.width, w.height)
	if step != nil {
		w.steps[w.pos] = step
		return w, cmd
	}

	w.pos++
	return w, w.Init()
}

func (w wizard) View() string {
	switch {
	case w.cancelled:
		return "Installation cancelled.\n"
	case w.done():
		return "Configuration complete!\n"
	}

	header := titleStyle.Render("Installing climaqa 🌍") + "  " +
		progressStyle.Render(fmt.Sprintf("step %d of %d", w.pos+1, len(w.steps)))
	return header + "\n\n" + w.steps[w.pos].View(w.state)
}

// RunWizard runs the installer TUI and writes its results under runtimePath.
func RunWizard(runtimePath string) (*InstallState, error) {
	final, err := tea.NewProgram(newWizard(runtimePath, wizardSteps()), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	w := final.(wizard)
	if w.cancelled {
		return nil, errInterrupted
	}
	return w.state, nil
}
