package installer

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values and drops intermediate answers
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return next
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func finalize(state *InstallState) {
	channel := state.EnvVars[keyChannel]
	state.EnvVars[keyEnableHTTP] = strconv.FormatBool(channel != channelTelegram)
	state.EnvVars[keyEnableTelegram] = strconv.FormatBool(state.wantsTelegram() && state.EnvVars[keyTelegramToken] != "")

	if state.EnvVars["CLIMAQA_DEBUG"] == "" {
		state.EnvVars["CLIMAQA_DEBUG"] = "0"
	}

	// Only used as intermediate state
	delete(state.EnvVars, keyChannel)
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
