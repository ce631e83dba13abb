package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/metrics"
	"requirements-assistant-be/internal/pkg/apperror"
	"requirements-assistant-be/pkg/lock"
)

// clock hands out strictly increasing UTC timestamps so messages written in
// the same transition keep their order.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

func acquireProject(ctx context.Context, l lock.ProjectLock, m *metrics.ConversationMetrics, projectId uuid.UUID) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	release, err := l.Acquire(ctx, projectId.String())
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			m.RecordLockContention(ctx)
			return nil, apperror.Conflict("Another message for this project is being processed")
		}
		return nil, err
	}
	return release, nil
}

// nonEmptyLines splits LLM output into trimmed, non-blank lines.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func stageOf(state *entity.ConversationState) constant.Stage {
	if state == nil {
		return constant.StageInit
	}
	return state.Stage
}

func newChatMessage(projectId uuid.UUID, sender, content string, stage constant.Stage, ts time.Time) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        uuid.New(),
		ProjectId: projectId,
		Content:   content,
		Sender:    sender,
		Stage:     stage,
		Timestamp: ts,
	}
}

// payloadFor builds the payload variant a stage expects, carrying only lang.
func payloadFor(stage constant.Stage, lang string) entity.Payload {
	switch stage {
	case constant.StageSoftwareQuestions, constant.StageNewRequisites, constant.StageAnalyzeRequisites:
		return entity.QuestionnairePayload{Lang: lang, Questions: []string{}, Answers: []string{}}
	case constant.StageStall:
		return entity.StallPayload{Lang: lang}
	default:
		return entity.LangPayload{Lang: lang}
	}
}

func toChatMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        m.Id,
		ProjectId: m.ProjectId,
		Content:   m.Content,
		Sender:    m.Sender,
		State:     string(m.Stage),
		Timestamp: m.Timestamp,
	}
}

func toStateResponse(s *entity.ConversationState) *dto.ConversationStateResponse {
	return &dto.ConversationStateResponse{
		Id:          s.Id,
		ProjectId:   s.ProjectId,
		State:       string(s.Stage),
		Extra:       stateExtra(s.Payload),
		LastUpdated: s.Timestamp,
	}
}

func stateExtra(p entity.Payload) map[string]interface{} {
	extra := map[string]interface{}{}
	switch v := p.(type) {
	case entity.LangPayload:
		if v.Lang != "" {
			extra["lang"] = v.Lang
		}
	case entity.QuestionnairePayload:
		if v.Mode != "" {
			extra["mode"] = v.Mode
		}
		extra["lang"] = v.Lang
		extra["questions"] = v.Questions
		extra["current"] = v.Current
		extra["answers"] = v.Answers
	case entity.StallPayload:
		if v.From != "" {
			extra["from"] = string(v.From)
			extra["answers_count"] = v.AnswersCount
		}
		extra["lang"] = v.Lang
	}
	return extra
}
