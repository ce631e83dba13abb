package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionnairePayload_Answer(t *testing.T) {
	tests := []struct {
		name        string
		questions   []string
		answers     []string
		wantCurrent int
		wantAnswers []string
		wantDone    bool
	}{
		{"first of two", []string{"Q1", "Q2"}, []string{"A1"}, 1, []string{"A1"}, false},
		{"last of two", []string{"Q1", "Q2"}, []string{"A1", "A2"}, 2, []string{"A1", "A2"}, true},
		{"no questions keeps the answer", []string{}, []string{"A1"}, 0, []string{"A1"}, true},
		{"answer after the last question", []string{"Q1"}, []string{"A1", "A2"}, 1, []string{"A1", "A2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQuestionnaire("", "es", tt.questions)
			for _, a := range tt.answers {
				p = p.Answer(a)
			}
			assert.Equal(t, tt.wantCurrent, p.Current)
			assert.Equal(t, tt.wantAnswers, p.Answers)
			assert.Equal(t, tt.wantDone, p.Done())
		})
	}
}

func TestQuestionnairePayload_AnswerDoesNotShareSlices(t *testing.T) {
	start := NewQuestionnaire("analyze", "en", []string{"Q1", "Q2"})
	next := start.Answer("A1")

	assert.Empty(t, start.Answers)
	assert.Equal(t, 0, start.Current)

	q, ok := next.NextQuestion()
	assert.True(t, ok)
	assert.Equal(t, "Q2", q)
	assert.Equal(t, "Q1\nA1", next.Transcript())
}

func TestConversationState_LanguageOnNil(t *testing.T) {
	var s *ConversationState
	assert.Equal(t, "", s.Language())
}
