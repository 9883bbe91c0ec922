package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Provider  string        `env:"CLIMAQA_LLM_PROVIDER"`
	APIKey    string        `env:"CLIMAQA_OPENAI_API_KEY" secret:"true"`
	TopK      int           `env:"CLIMAQA_RAG_TOP_K"`
	Threshold float64       `env:"CLIMAQA_RAG_THRESHOLD"`
	Timeout   time.Duration `env:"CLIMAQA_ASK_TIMEOUT"`
	Origins   []string      `env:"CLIMAQA_HTTP_CORS_ORIGINS" envSeparator:","`
	Enabled   bool          `env:"CLIMAQA_ENABLE_HTTP"`
	Empty     string        `env:"CLIMAQA_EMPTY"`
	internal  string        `env:"CLIMAQA_INTERNAL"`
	NoTag     string
}

func TestMarshalEnv(t *testing.T) {
	c := &sample{
		Provider:  "openai",
		APIKey:    "sk-secret",
		TopK:      5,
		Threshold: 0.75,
		Timeout:   90 * time.Second,
		Origins:   []string{"http://a", "http://b"},
		Enabled:   true,
		internal:  "hidden",
		NoTag:     "x",
	}

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{
			name: "plain",
			opts: Options{},
			expected: "CLIMAQA_LLM_PROVIDER=openai\n" +
				"CLIMAQA_OPENAI_API_KEY=sk-secret\n" +
				"CLIMAQA_RAG_TOP_K=5\n" +
				"CLIMAQA_RAG_THRESHOLD=0.75\n" +
				"CLIMAQA_ASK_TIMEOUT=1m30s\n" +
				"CLIMAQA_HTTP_CORS_ORIGINS=http://a,http://b\n" +
				"CLIMAQA_ENABLE_HTTP=true\n",
		},
		{
			name: "masked",
			opts: Options{MaskSecrets: true},
			expected: "CLIMAQA_LLM_PROVIDER=openai\n" +
				"CLIMAQA_OPENAI_API_KEY=****\n" +
				"CLIMAQA_RAG_TOP_K=5\n" +
				"CLIMAQA_RAG_THRESHOLD=0.75\n" +
				"CLIMAQA_ASK_TIMEOUT=1m30s\n" +
				"CLIMAQA_HTTP_CORS_ORIGINS=http://a,http://b\n" +
				"CLIMAQA_ENABLE_HTTP=true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalEnv(c, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv(sample{}, Options{})
	assert.Error(t, err)
}

func TestMarshalEnvMap(t *testing.T) {
	got := MarshalEnvMap(map[string]string{
		"CLIMAQA_LLM_MODEL":    "gpt-4o",
		"CLIMAQA_DEBUG":        "0",
		"CLIMAQA_LLM_PROVIDER": "openai",
		"CLIMAQA_SKIPPED":      "",
	})

	assert.Equal(t, "CLIMAQA_DEBUG=0\nCLIMAQA_LLM_MODEL=gpt-4o\nCLIMAQA_LLM_PROVIDER=openai\n", got)
	assert.Equal(t, "", MarshalEnvMap(nil))
}
