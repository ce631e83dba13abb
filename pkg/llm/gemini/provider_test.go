package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requirements-assistant-be/pkg/llm"
)

func TestGeminiRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"assistant", "model"},
		{"ai", "model"},
		{"model", "model"},
		{"user", "user"},
		{"system", "user"},
		{"", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, geminiRole(tt.role))
		})
	}
}

func TestGeminiProvider_EmptyHistory(t *testing.T) {
	p := &GeminiProvider{model: DefaultModel}

	_, err := p.Chat(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty history")
	assert.NotErrorIs(t, err, llm.ErrUnavailable)
}

func TestNewGeminiProvider_RequiresAPIKey(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), "", "", 0)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestGeminiProvider_CloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&GeminiProvider{}).Close())
}
