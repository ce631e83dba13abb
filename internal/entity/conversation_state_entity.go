package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
)

// ConversationState is one snapshot of a project's conversation. The newest
// snapshot of a project is its current stage.
type ConversationState struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	Stage     constant.Stage
	Payload   Payload
	Timestamp time.Time
}

// Language returns the sticky language of the snapshot, or "".
func (s *ConversationState) Language() string {
	if s == nil || s.Payload == nil {
		return ""
	}
	return s.Payload.Language()
}

// Payload is the stage-specific working data of a snapshot. The variants are
// LangPayload, QuestionnairePayload and StallPayload.
type Payload interface {
	Language() string
	payload()
}

// LangPayload only carries the language (init and generically recorded stages).
type LangPayload struct {
	Lang string
}

func (p LangPayload) Language() string { return p.Lang }
func (LangPayload) payload()           {}

// QuestionnairePayload drives one question/answer round. Current never exceeds
// len(Questions). len(Answers) == Current until the round is done; answers sent
// after that are appended without moving Current.
type QuestionnairePayload struct {
	Mode      string
	Lang      string
	Questions []string
	Current   int
	Answers   []string
}

func (p QuestionnairePayload) Language() string { return p.Lang }
func (QuestionnairePayload) payload()           {}

func NewQuestionnaire(mode, lang string, questions []string) QuestionnairePayload {
	return QuestionnairePayload{
		Mode:      mode,
		Lang:      lang,
		Questions: append([]string{}, questions...),
		Current:   0,
		Answers:   []string{},
	}
}

// Done reports whether every question has an answer.
func (p QuestionnairePayload) Done() bool {
	return p.Current >= len(p.Questions)
}

// Answer records the answer to the current question. On a finished
// questionnaire the answer is still kept but Current stays at len(Questions).
func (p QuestionnairePayload) Answer(text string) QuestionnairePayload {
	next := p
	next.Answers = append(append(make([]string, 0, len(p.Answers)+1), p.Answers...), text)
	next.Questions = append([]string{}, p.Questions...)
	if !p.Done() {
		next.Current = p.Current + 1
	}
	return next
}

// NextQuestion returns the question waiting for an answer.
func (p QuestionnairePayload) NextQuestion() (string, bool) {
	if p.Done() {
		return "", false
	}
	return p.Questions[p.Current], true
}

// Transcript pairs each question with its answer, one per line.
func (p QuestionnairePayload) Transcript() string {
	n := len(p.Answers)
	if len(p.Questions) < n {
		n = len(p.Questions)
	}
	pairs := make([]string, n)
	for i := 0; i < n; i++ {
		pairs[i] = p.Questions[i] + "\n" + p.Answers[i]
	}
	return strings.Join(pairs, "\n")
}

// StallPayload is written when an analysis round closes.
type StallPayload struct {
	From         constant.Stage
	AnswersCount int
	Lang         string
}

func (p StallPayload) Language() string { return p.Lang }
func (StallPayload) payload()           {}
