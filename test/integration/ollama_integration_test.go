package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requirements-assistant-be/pkg/llm/ollama"
	"requirements-assistant-be/pkg/parser"
	"requirements-assistant-be/pkg/prompt"
)

// Runs the project-questions and requirement prompts against a local Ollama.
// Set OLLAMA_INTEGRATION=1 (and optionally OLLAMA_BASE_URL / LLM_MODEL) to enable.
func TestOllama_RequirementPrompts(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = ollama.DefaultBaseURL
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "llama3:8b"
	}

	provider := ollama.NewOllamaProvider(baseURL, model, 2*time.Minute)
	renderer := prompt.NewRenderer("")
	ctx := context.Background()

	t.Run("project questions", func(t *testing.T) {
		text, err := renderer.Render(prompt.ProjectQuestions, map[string]string{
			"project_description": "A todo list app for small teams",
		})
		require.NoError(t, err)

		out, err := provider.Generate(ctx, prompt.WithLanguageDirective("es", text))
		require.NoError(t, err)
		assert.NotEmpty(t, out)
		t.Logf("questions:\n%s", out)
	})

	t.Run("generate requirements", func(t *testing.T) {
		text, err := renderer.Render(prompt.GenerateNewRequisites, map[string]string{
			"project_description":   "A todo list app for small teams",
			"questions_and_answers": "Who uses it?\nTeams of 5 to 20 people",
			"style_example_block":   "",
		})
		require.NoError(t, err)

		out, err := provider.Generate(ctx, prompt.WithLanguageDirective("es", text))
		require.NoError(t, err)

		items := parser.ParseRequirements(out)
		t.Logf("parsed %d requirements from:\n%s", len(items), out)
	})
}
