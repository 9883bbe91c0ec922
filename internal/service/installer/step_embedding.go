package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

var embeddingDefaults = map[string]string{
	"openai": "text-embedding-3-small",
	"ollama": "nomic-embed-text",
}

// EmbeddingStep selects the embedding backend used by the passage index.
type EmbeddingStep struct {
	choiceStep
}

func NewEmbeddingStep() Step {
	return &EmbeddingStep{choiceStep{
		title:   "Select the embedding provider for the passage index:",
		key:     keyEmbedProvider,
		choices: []string{"OpenAI (text-embedding-3-small)", "Ollama (nomic-embed-text)"},
		values:  []string{"openai", "ollama"},
	}}
}

func (s *EmbeddingStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	next, cmd := s.choiceStep.Update(msg, state, width, height)
	if next != nil {
		return s, cmd
	}

	provider := state.EnvVars[keyEmbedProvider]
	state.EnvVars[keyEmbedModel] = embeddingDefaults[provider]
	if provider == "ollama" {
		url := state.EnvVars[keyOllamaURL]
		if url == "" {
			url = defaultOllamaURL
		}
		state.EnvVars[keyEmbedURL] = url
	}
	return nil, nil
}
