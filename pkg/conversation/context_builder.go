// Package conversation assembles the prompt context of a project: its
// description, its current requirements and its recent chat history.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/repository/specification"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/parser"
	"requirements-assistant-be/pkg/prompt"
)

const DefaultHistoryLimit = 14

type ContextBuilder struct {
	historyLimit int
}

func NewContextBuilder(historyLimit int) *ContextBuilder {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ContextBuilder{historyLimit: historyLimit}
}

// ProjectDescription returns the first user message of the init stage, or "".
func (b *ContextBuilder) ProjectDescription(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID) (string, error) {
	msg, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.BySender{Sender: constant.SenderUser},
		specification.ByStage{Stage: constant.StageInit},
		specification.Chronological(),
	)
	if err != nil {
		return "", fmt.Errorf("load project description: %w", err)
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

// Requirements renders the project's requirements grouped under the five
// category headers.
func (b *ContextBuilder) Requirements(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, msgs prompt.Messages) (string, error) {
	reqs, err := uow.RequirementRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "category"},
		specification.OrderBy{Field: "number"},
	)
	if err != nil {
		return "", fmt.Errorf("load requirements: %w", err)
	}
	return FormatRequirements(reqs, msgs), nil
}

func FormatRequirements(reqs []*entity.Requirement, msgs prompt.Messages) string {
	if len(reqs) == 0 {
		return msgs.NoRequirements
	}

	buckets := make(map[string][]*entity.Requirement, len(parser.Categories))
	for _, r := range reqs {
		c := strings.ToLower(r.Category)
		buckets[c] = append(buckets[c], r)
	}

	var lines []string
	for _, c := range parser.Categories {
		lines = append(lines, strings.ToUpper(c)+":")
		if items := buckets[c]; len(items) > 0 {
			for _, r := range items {
				lines = append(lines, fmt.Sprintf("%d. %s", r.Number, r.Description))
			}
		} else {
			lines = append(lines, msgs.EmptyCategory)
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// RecentHistory renders the last messages of the project in chronological
// order, skipping excludeId.
func (b *ContextBuilder) RecentHistory(ctx context.Context, uow unitofwork.UnitOfWork, projectId, excludeId uuid.UUID, msgs prompt.Messages) (string, error) {
	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.ExcludeID{ID: excludeId},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: b.historyLimit},
	)
	if err != nil {
		return "", fmt.Errorf("load chat history: %w", err)
	}
	return FormatHistory(recent, msgs), nil
}

// FormatHistory expects newest-first input and prints oldest first.
func FormatHistory(newestFirst []*entity.ChatMessage, msgs prompt.Messages) string {
	if len(newestFirst) == 0 {
		return msgs.NoHistory
	}
	lines := make([]string, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		m := newestFirst[i]
		who := msgs.HistoryAI
		if m.Sender == constant.SenderUser {
			who = msgs.HistoryUser
		}
		lines = append(lines, fmt.Sprintf("%s: %s", who, m.Content))
	}
	return strings.Join(lines, "\n")
}
