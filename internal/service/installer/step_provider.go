package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// choiceStep is a cursor list that stores the chosen value under key.
type choiceStep struct {
	title   string
	key     string
	choices []string
	values  []string
	cursor  int
}

// NewProviderStep allows selection of the LLM provider
func NewProviderStep() Step {
	return &choiceStep{
		title:   "Select your LLM Provider:",
		key:     keyProvider,
		choices: []string{"OpenAI", "Anthropic", "OpenRouter", "Ollama", "Custom (OpenAI compatible)"},
		values:  []string{"openai", "anthropic", "openrouter", "ollama", "custom"},
	}
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.key] = s.value()
			return nil, nil
		}
	}
	return s, nil
}

func (s *choiceStep) value() string {
	if s.values != nil {
		return s.values[s.cursor]
	}
	return s.choices[s.cursor]
}

func (s *choiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
