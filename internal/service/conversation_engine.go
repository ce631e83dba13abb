package service

import (
	"context"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/metrics"
	"requirements-assistant-be/internal/pkg/logger"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/conversation"
	"requirements-assistant-be/pkg/events"
	"requirements-assistant-be/pkg/llm"
	"requirements-assistant-be/pkg/lock"
	"requirements-assistant-be/pkg/prompt"
	"requirements-assistant-be/pkg/requirement"
)

// ConversationEngine bundles the collaborators shared by the conversation
// and requirement services. Lock, Publisher and Metrics may be nil.
type ConversationEngine struct {
	UowFactory      unitofwork.RepositoryFactory
	LLM             llm.LLMProvider
	Renderer        *prompt.Renderer
	Catalog         *prompt.Catalog
	Contexts        *conversation.ContextBuilder
	Mutator         *requirement.Mutator
	Lock            lock.ProjectLock
	Publisher       IPublisherService
	Metrics         *metrics.ConversationMetrics
	Logger          logger.ILogger
	DefaultLanguage string

	clock clock
}

func (e *ConversationEngine) acquire(ctx context.Context, projectId uuid.UUID) (func(), error) {
	return acquireProject(ctx, e.Lock, e.Metrics, projectId)
}

// renderPrompt fills a template and prefixes the language directive.
func (e *ConversationEngine) renderPrompt(name, lang string, values map[string]string) (string, error) {
	text, err := e.Renderer.Render(name, values)
	if err != nil {
		return "", err
	}
	return prompt.WithLanguageDirective(lang, text), nil
}

func (e *ConversationEngine) generate(ctx context.Context, purpose, text string) (string, error) {
	return e.LLM.Generate(llm.WithPurpose(ctx, purpose), text)
}

func (e *ConversationEngine) afterTransition(ctx context.Context, projectId uuid.UUID, from, to constant.Stage, lang string) {
	e.Metrics.RecordTransition(ctx, string(from), string(to))
	e.Logger.Info("CONVERSATION", "Stage changed", map[string]interface{}{
		"project_id": projectId.String(),
		"from":       string(from),
		"to":         string(to),
		"lang":       lang,
	})
	e.publish(ctx, events.NewStageChanged(projectId.String(), string(from), string(to), lang))
}

func (e *ConversationEngine) afterRequirements(ctx context.Context, projectId uuid.UUID, mode, category string, count int) {
	e.Metrics.RecordRequirementsWritten(ctx, mode, count)
	e.Logger.Info("REQUIREMENT", "Requirements written", map[string]interface{}{
		"project_id": projectId.String(),
		"mode":       mode,
		"category":   category,
		"count":      count,
	})
	e.publish(ctx, events.NewRequirementsWritten(projectId.String(), mode, category, count))
}

func (e *ConversationEngine) publish(ctx context.Context, evts ...events.Event) {
	if e.Publisher == nil {
		return
	}
	e.Publisher.Publish(ctx, evts...)
}
