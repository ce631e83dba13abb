package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/entity"
)

func TestConversationMapper_QuestionnaireRoundTrip(t *testing.T) {
	m := NewConversationMapper()

	tests := []struct {
		name    string
		stage   constant.Stage
		payload entity.QuestionnairePayload
	}{
		{"in progress", constant.StageSoftwareQuestions,
			entity.NewQuestionnaire("", "es", []string{"Q1", "Q2"}).Answer("A1")},
		{"finished", constant.StageNewRequisites,
			entity.NewQuestionnaire("", "en", []string{"Q1"}).Answer("A1")},
		{"answered without questions", constant.StageNewRequisites,
			entity.NewQuestionnaire("", "es", []string{}).Answer("Only web")},
		{"analyze mode", constant.StageAnalyzeRequisites,
			entity.NewQuestionnaire(constant.AnalyzeMode, "es", []string{"Q1"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &entity.ConversationState{
				Id:        uuid.New(),
				ProjectId: uuid.New(),
				Stage:     tt.stage,
				Payload:   tt.payload,
				Timestamp: time.Now().UTC(),
			}

			out := m.ConversationStateToEntity(m.ConversationStateToModel(in))
			got, ok := out.Payload.(entity.QuestionnairePayload)
			require.True(t, ok)
			assert.Equal(t, tt.payload, got)
		})
	}
}

func TestConversationMapper_DecodeClampsCurrent(t *testing.T) {
	m := NewConversationMapper()

	p := m.decodeExtra(constant.StageSoftwareQuestions,
		[]byte(`{"lang":"es","questions":["Q1","Q2","Q3"],"current":1,"answers":["A1","A2"]}`))
	q := p.(entity.QuestionnairePayload)
	assert.Equal(t, 1, q.Current)
	assert.Equal(t, []string{"A1"}, q.Answers)

	p = m.decodeExtra(constant.StageNewRequisites,
		[]byte(`{"lang":"es","questions":["Q1"],"current":5,"answers":["A1","A2"]}`))
	q = p.(entity.QuestionnairePayload)
	assert.Equal(t, 1, q.Current)
	assert.Equal(t, []string{"A1", "A2"}, q.Answers)
}

func TestConversationMapper_StallAndLang(t *testing.T) {
	m := NewConversationMapper()

	stall := m.decodeExtra(constant.StageStall, m.encodeExtra(entity.StallPayload{
		From: constant.StageAnalyzeRequisites, AnswersCount: 2, Lang: "en",
	}))
	assert.Equal(t, entity.StallPayload{From: constant.StageAnalyzeRequisites, AnswersCount: 2, Lang: "en"}, stall)

	assert.Equal(t, entity.LangPayload{Lang: "es"}, m.decodeExtra(constant.StageInit, m.encodeExtra(entity.LangPayload{Lang: "es"})))
	assert.Equal(t, entity.LangPayload{}, m.decodeExtra(constant.StageInit, nil))
}
