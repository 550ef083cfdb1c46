package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/scan3data/internal/config"
)

func TestNewCorrector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.Config
		wantType any
		wantErr  string
	}{
		{
			name:     "default is ollama",
			cfg:      config.Config{},
			wantType: &OllamaCorrector{},
		},
		{
			name:     "ollama explicit",
			cfg:      config.Config{Vision: config.VisionConfig{Provider: "ollama"}},
			wantType: &OllamaCorrector{},
		},
		{
			name: "anthropic",
			cfg: config.Config{Vision: config.VisionConfig{
				Provider:     "anthropic",
				AnthropicKey: "sk-test",
				Model:        "claude-haiku-4-5-20251001",
			}},
			wantType: &AnthropicCorrector{},
		},
		{
			name:    "anthropic without key",
			cfg:     config.Config{Vision: config.VisionConfig{Provider: "anthropic"}},
			wantErr: "requires anthropic_api_key",
		},
		{
			name:    "unknown provider",
			cfg:     config.Config{Vision: config.VisionConfig{Provider: "openai"}},
			wantErr: "unknown provider",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewCorrector(&tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, got)
		})
	}
}
