package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// extraDocument is the JSON shape of the extra column.
type extraDocument struct {
	Lang         string    `json:"lang,omitempty"`
	Mode         string    `json:"mode,omitempty"`
	Questions    *[]string `json:"questions,omitempty"`
	Current      *int      `json:"current,omitempty"`
	Answers      *[]string `json:"answers,omitempty"`
	From         string    `json:"from,omitempty"`
	AnswersCount *int      `json:"answers_count,omitempty"`
}

func (m *ConversationMapper) ConversationStateToEntity(s *model.ConversationState) *entity.ConversationState {
	if s == nil {
		return nil
	}
	stage := constant.Stage(s.State)
	return &entity.ConversationState{
		Id:        s.Id,
		ProjectId: s.ProjectId,
		Stage:     stage,
		Payload:   m.decodeExtra(stage, s.Extra),
		Timestamp: s.LastUpdated,
	}
}

func (m *ConversationMapper) ConversationStateToModel(s *entity.ConversationState) *model.ConversationState {
	if s == nil {
		return nil
	}
	return &model.ConversationState{
		Id:          s.Id,
		ProjectId:   s.ProjectId,
		State:       string(s.Stage),
		Extra:       m.encodeExtra(s.Payload),
		LastUpdated: s.Timestamp,
	}
}

func (m *ConversationMapper) encodeExtra(p entity.Payload) datatypes.JSON {
	var doc extraDocument
	switch v := p.(type) {
	case entity.LangPayload:
		doc.Lang = v.Lang
	case entity.QuestionnairePayload:
		questions := nonNil(v.Questions)
		answers := nonNil(v.Answers)
		current := v.Current
		doc = extraDocument{
			Lang:      v.Lang,
			Mode:      v.Mode,
			Questions: &questions,
			Current:   &current,
			Answers:   &answers,
		}
	case entity.StallPayload:
		count := v.AnswersCount
		doc = extraDocument{Lang: v.Lang, From: string(v.From)}
		if v.From != "" {
			doc.AnswersCount = &count
		}
	}
	// extraDocument only holds strings, ints and string slices
	data, _ := json.Marshal(doc)
	return datatypes.JSON(data)
}

// decodeExtra picks the payload variant from the stage. Unreadable JSON yields
// the empty variant for that stage.
func (m *ConversationMapper) decodeExtra(stage constant.Stage, raw datatypes.JSON) entity.Payload {
	var doc extraDocument
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	switch stage {
	case constant.StageSoftwareQuestions, constant.StageNewRequisites, constant.StageAnalyzeRequisites:
		q := entity.QuestionnairePayload{Mode: doc.Mode, Lang: doc.Lang, Questions: []string{}, Answers: []string{}}
		if doc.Questions != nil {
			q.Questions = *doc.Questions
		}
		if doc.Answers != nil {
			q.Answers = *doc.Answers
		}
		q.Current = len(q.Answers)
		if doc.Current != nil && *doc.Current < q.Current {
			q.Current = *doc.Current
		}
		if q.Current > len(q.Questions) {
			q.Current = len(q.Questions)
		}
		// extra answers only survive on a finished questionnaire
		if q.Current < len(q.Questions) {
			q.Answers = q.Answers[:q.Current]
		}
		return q
	case constant.StageStall:
		s := entity.StallPayload{Lang: doc.Lang, From: constant.Stage(doc.From)}
		if doc.AnswersCount != nil {
			s.AnswersCount = *doc.AnswersCount
		}
		return s
	default:
		return entity.LangPayload{Lang: doc.Lang}
	}
}

func (m *ConversationMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        msg.Id,
		ProjectId: msg.ProjectId,
		Content:   msg.Content,
		Sender:    msg.Sender,
		Stage:     constant.Stage(msg.State),
		Timestamp: msg.Timestamp,
	}
}

func (m *ConversationMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        msg.Id,
		ProjectId: msg.ProjectId,
		Content:   msg.Content,
		Sender:    msg.Sender,
		State:     string(msg.Stage),
		Timestamp: msg.Timestamp,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
