package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/model"
	"requirements-assistant-be/internal/pkg/apperror"
	"requirements-assistant-be/internal/pkg/logger"
	"requirements-assistant-be/internal/repository/specification"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/conversation"
	"requirements-assistant-be/pkg/database"
	"requirements-assistant-be/pkg/events"
	"requirements-assistant-be/pkg/llm"
	"requirements-assistant-be/pkg/lock"
	"requirements-assistant-be/pkg/prompt"
	"requirements-assistant-be/pkg/requirement"
)

// scriptedLLM replays canned completions in order and keeps every prompt.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (f *scriptedLLM) script(replies ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

func (f *scriptedLLM) Generate(ctx context.Context, text string, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, text)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return f.Generate(ctx, "", options...)
	}
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *scriptedLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *scriptedLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evts ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	engine       *ConversationEngine
	llm          *scriptedLLM
	publisher    *recordingPublisher
	conversation IConversationService
	requirements IRequirementService
	catalog      *prompt.Catalog
	projectId    uuid.UUID
	userId       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))

	catalog, err := prompt.LoadCatalog()
	require.NoError(t, err)

	fake := &scriptedLLM{}
	pub := &recordingPublisher{}
	engine := &ConversationEngine{
		UowFactory:      unitofwork.NewRepositoryFactory(db),
		LLM:             fake,
		Renderer:        prompt.NewRenderer(""),
		Catalog:         catalog,
		Contexts:        conversation.NewContextBuilder(conversation.DefaultHistoryLimit),
		Mutator:         requirement.NewMutator(),
		Lock:            lock.NewMemoryLock(time.Minute),
		Publisher:       pub,
		Logger:          logger.NewNopLogger(),
		DefaultLanguage: "es",
	}

	return &fixture{
		engine:       engine,
		llm:          fake,
		publisher:    pub,
		conversation: NewConversationService(engine),
		requirements: NewRequirementService(engine),
		catalog:      catalog,
		projectId:    uuid.New(),
		userId:       uuid.New(),
	}
}

func (f *fixture) send(t *testing.T, content string) *dto.ChatMessageResponse {
	t.Helper()
	res, err := f.conversation.SendMessage(context.Background(), f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   content,
		Sender:    constant.SenderUser,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) state(t *testing.T) *dto.ConversationStateResponse {
	t.Helper()
	res, err := f.conversation.GetState(context.Background(), f.projectId)
	require.NoError(t, err)
	return res
}

func (f *fixture) messages(t *testing.T) []*dto.ChatMessageResponse {
	t.Helper()
	res, err := f.conversation.ListMessages(context.Background(), f.projectId)
	require.NoError(t, err)
	return res
}

func (f *fixture) requirementList(t *testing.T) []*dto.RequirementResponse {
	t.Helper()
	res, err := f.requirements.List(context.Background(), f.projectId, "")
	require.NoError(t, err)
	return res
}

func (f *fixture) moveTo(t *testing.T, stage constant.Stage) {
	t.Helper()
	_, err := f.conversation.UpdateState(context.Background(), f.projectId, &dto.UpdateStateRequest{State: string(stage)})
	require.NoError(t, err)
}

func requireAppError(t *testing.T, err error, code int) *apperror.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected apperror, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestSendMessage_InitAsksFirstQuestion(t *testing.T) {
	f := newFixture(t)
	f.llm.script("What platforms?\n\n  Who are the users?  \n")

	res := f.send(t, "Build a todo app")

	assert.Equal(t, "What platforms?", res.Content)
	assert.Equal(t, constant.SenderAI, res.Sender)
	assert.Equal(t, string(constant.StageSoftwareQuestions), res.State)
	assert.True(t, strings.HasPrefix(f.llm.lastPrompt(), "Responde SIEMPRE en es.\n\n"))
	assert.Contains(t, f.llm.lastPrompt(), "Build a todo app")

	st := f.state(t)
	assert.Equal(t, string(constant.StageSoftwareQuestions), st.State)
	assert.Equal(t, []string{"What platforms?", "Who are the users?"}, st.Extra["questions"])
	assert.Equal(t, 0, st.Extra["current"])
	assert.Equal(t, []string{}, st.Extra["answers"])
	assert.Equal(t, "es", st.Extra["lang"])

	msgs := f.messages(t)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Build a todo app", msgs[0].Content)
	assert.Equal(t, constant.SenderUser, msgs[0].Sender)
	assert.Equal(t, string(constant.StageInit), msgs[0].State)
	assert.Equal(t, "What platforms?", msgs[1].Content)

	assert.Equal(t, []string{events.StageChanged}, f.publisher.types())
}

func TestSendMessage_InitWithoutQuestionsUsesFallback(t *testing.T) {
	f := newFixture(t)
	f.llm.script("   \n\n")

	res := f.send(t, "Build a todo app")

	fallback := f.catalog.For("es").NoQuestionsGenerated
	assert.Equal(t, fallback, res.Content)
	assert.Equal(t, []string{fallback}, f.state(t).Extra["questions"])
}

func TestSendMessage_LLMFailureCommitsNothing(t *testing.T) {
	f := newFixture(t)
	f.llm.err = llm.Unavailable("connection refused")

	_, err := f.conversation.SendMessage(context.Background(), f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "Build a todo app",
		Sender:    constant.SenderUser,
	})
	require.ErrorIs(t, err, llm.ErrUnavailable)

	_, err = f.conversation.GetState(context.Background(), f.projectId)
	requireAppError(t, err, 404)
	assert.Empty(t, f.messages(t))
	assert.Empty(t, f.publisher.types())
}

func TestSendMessage_LLMFailureOnFinalAnalyzeAnswerCommitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.moveTo(t, constant.StageStall)
	_, err := f.requirements.Create(ctx, f.userId, &dto.CreateRequirementRequest{ProjectId: f.projectId, Description: "Login"})
	require.NoError(t, err)

	f.llm.script("PREGUNTAS:\n1. ¿Qué roles hay?")
	_, err = f.conversation.UpdateState(ctx, f.projectId, &dto.UpdateStateRequest{State: string(constant.StageAnalyzeRequisites)})
	require.NoError(t, err)
	eventsBefore := len(f.publisher.types())

	f.llm.err = llm.Unavailable("timeout")
	_, err = f.conversation.SendMessage(ctx, f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "Admin y usuario",
		Sender:    constant.SenderUser,
	})
	require.ErrorIs(t, err, llm.ErrUnavailable)

	st := f.state(t)
	assert.Equal(t, string(constant.StageAnalyzeRequisites), st.State)
	assert.Equal(t, 0, st.Extra["current"])
	assert.Equal(t, []string{}, st.Extra["answers"])

	msgs := f.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "¿Qué roles hay?", msgs[0].Content)

	reqs := f.requirementList(t)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Login", reqs[0].Description)
	assert.Len(t, f.publisher.types(), eventsBefore)
}

func TestSendMessage_LLMFailureInStallChatCommitsNothing(t *testing.T) {
	f := newFixture(t)
	f.moveTo(t, constant.StageStall)
	f.llm.err = llm.Unavailable("connection refused")

	_, err := f.conversation.SendMessage(context.Background(), f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "hola",
		Sender:    constant.SenderUser,
	})
	require.ErrorIs(t, err, llm.ErrUnavailable)

	assert.Empty(t, f.messages(t))
	assert.Equal(t, string(constant.StageStall), f.state(t).State)
}

func TestSendMessage_AnswerToEmptyQuestionnaireIsKept(t *testing.T) {
	f := newFixture(t)
	f.moveTo(t, constant.StageSoftwareQuestions)
	f.llm.script("FUNCTIONAL:\n1. Login")

	res := f.send(t, "Only web")
	assert.Equal(t, string(constant.StageNewRequisites), res.State)

	st := f.state(t)
	assert.Equal(t, string(constant.StageNewRequisites), st.State)
	assert.Equal(t, []string{"Only web"}, st.Extra["answers"])
	assert.Equal(t, 0, st.Extra["current"])
	assert.Len(t, f.requirementList(t), 1)
}

func TestSendMessage_QuestionnaireGeneratesRequirements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requirements.Create(ctx, f.userId, &dto.CreateRequirementRequest{ProjectId: f.projectId, Description: "Stale"})
	require.NoError(t, err)

	f.llm.script("Q1\nQ2")
	f.send(t, "Build a todo app")

	res := f.send(t, "A1")
	assert.Equal(t, "Q2", res.Content)
	st := f.state(t)
	assert.Equal(t, string(constant.StageSoftwareQuestions), st.State)
	assert.Equal(t, 1, st.Extra["current"])
	assert.Equal(t, []string{"A1"}, st.Extra["answers"])

	f.llm.script("FUNCTIONAL:\n1. Login\n2. Logout\n\nSECURITY:\n1. Hash passwords\n3. skipped")
	res = f.send(t, "A2")

	assert.Equal(t, f.catalog.For("es").RequirementsGenerated, res.Content)
	assert.Equal(t, string(constant.StageNewRequisites), res.State)

	p := f.llm.lastPrompt()
	assert.Contains(t, p, "Build a todo app")
	assert.Contains(t, p, "Q1\nA1\nQ2\nA2")

	st = f.state(t)
	assert.Equal(t, string(constant.StageNewRequisites), st.State)
	assert.Equal(t, 2, st.Extra["current"])

	reqs := f.requirementList(t)
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.NotEqual(t, "Stale", r.Description)
	}
	numbers := map[string][]int{}
	for _, r := range reqs {
		numbers[r.Category] = append(numbers[r.Category], r.Number)
	}
	assert.Equal(t, []int{1, 2}, numbers["functional"])
	assert.Equal(t, []int{1}, numbers["security"])

	msgs := f.messages(t)
	require.Len(t, msgs, 6)
	assert.Equal(t, "A2", msgs[4].Content)
	assert.Equal(t, string(constant.StageSoftwareQuestions), msgs[4].State)
	assert.Equal(t, string(constant.StageNewRequisites), msgs[5].State)

	assert.Contains(t, f.publisher.types(), events.RequirementsReplaced)
}

func TestSendMessage_NewRequisitesFallsThrough(t *testing.T) {
	f := newFixture(t)
	f.llm.script("Q1")
	f.send(t, "Build a todo app")
	f.llm.script("FUNCTIONAL:\n1. Login")
	f.send(t, "A1")
	calls := f.llm.calls()

	res := f.send(t, "thanks")

	assert.Equal(t, "thanks", res.Content)
	assert.Equal(t, constant.SenderUser, res.Sender)
	assert.Equal(t, string(constant.StageNewRequisites), res.State)
	assert.Equal(t, calls, f.llm.calls())
	assert.Equal(t, string(constant.StageNewRequisites), f.state(t).State)
}

func TestSendMessage_AISenderIsStoredVerbatim(t *testing.T) {
	f := newFixture(t)
	f.moveTo(t, constant.StageStall)

	res, err := f.conversation.SendMessage(context.Background(), f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "  canned reply ",
		Sender:    constant.SenderAI,
	})
	require.NoError(t, err)

	assert.Equal(t, "  canned reply ", res.Content)
	assert.Equal(t, constant.SenderAI, res.Sender)
	assert.Equal(t, string(constant.StageStall), res.State)
	assert.Zero(t, f.llm.calls())
}

func TestSendMessage_LanguageIsSticky(t *testing.T) {
	f := newFixture(t)
	f.llm.script("Q1\nQ2")

	_, err := f.conversation.SendMessage(context.Background(), f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "Build a todo app",
		Sender:    constant.SenderUser,
		Language:  " en ",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.llm.lastPrompt(), "Responde SIEMPRE en en."))

	f.send(t, "A1")
	assert.Equal(t, "en", f.state(t).Extra["lang"])

	f.llm.script("FUNCTIONAL:\n1. Login")
	res := f.send(t, "A2")
	assert.Equal(t, f.catalog.For("en").RequirementsGenerated, res.Content)

	f.moveTo(t, constant.StageStall)
	assert.Equal(t, "en", f.state(t).Extra["lang"])
}

func TestSendMessage_StallChat(t *testing.T) {
	f := newFixture(t)
	f.moveTo(t, constant.StageStall)
	f.llm.script("  First reply \n", "Second reply")

	res := f.send(t, "hola")
	assert.Equal(t, "First reply", res.Content)
	assert.Equal(t, string(constant.StageStall), res.State)

	p := f.llm.lastPrompt()
	assert.Contains(t, p, "(sin descripción)")
	assert.Contains(t, p, "(sin historial)")
	assert.Contains(t, p, "Sin requisitos.")
	assert.Contains(t, p, "hola")

	f.send(t, "otra pregunta")
	assert.Contains(t, f.llm.lastPrompt(), "Usuario: hola\nIA: First reply")
	assert.NotContains(t, f.llm.lastPrompt(), "Usuario: otra pregunta")

	assert.Empty(t, f.requirementList(t))
	assert.Equal(t, string(constant.StageStall), f.state(t).State)
}

func TestUpdateState_AnalysisRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.conversation.UpdateState(ctx, f.projectId, &dto.UpdateStateRequest{State: string(constant.StageAnalyzeRequisites)})
	appErr := requireAppError(t, err, 400)
	assert.Equal(t, "State machine not in stall", appErr.Message)

	f.moveTo(t, constant.StageStall)
	_, err = f.requirements.Create(ctx, f.userId, &dto.CreateRequirementRequest{ProjectId: f.projectId, Description: "Login"})
	require.NoError(t, err)

	f.llm.script("COMENTARIOS:\n1. Falta seguridad\nPREGUNTAS:\n1. ¿Qué roles hay?\n2. ¿Hace falta auditoría?")
	st, err := f.conversation.UpdateState(ctx, f.projectId, &dto.UpdateStateRequest{State: string(constant.StageAnalyzeRequisites)})
	require.NoError(t, err)

	assert.Equal(t, string(constant.StageAnalyzeRequisites), st.State)
	assert.Equal(t, constant.AnalyzeMode, st.Extra["mode"])
	assert.Equal(t, []string{"¿Qué roles hay?", "¿Hace falta auditoría?"}, st.Extra["questions"])
	assert.Contains(t, f.llm.lastPrompt(), "1. Login")

	msgs := f.messages(t)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Falta seguridad", msgs[0].Content)
	assert.Equal(t, "¿Qué roles hay?", msgs[1].Content)

	res := f.send(t, "Admin y usuario")
	assert.Equal(t, "¿Hace falta auditoría?", res.Content)
	assert.Equal(t, string(constant.StageAnalyzeRequisites), res.State)

	f.llm.script("FUNCTIONAL:\n1. Login\nSECURITY:\n1. Audit log")
	res = f.send(t, "Sí")

	assert.Equal(t, f.catalog.For("es").AnalysisCompleted, res.Content)
	assert.Equal(t, string(constant.StageStall), res.State)
	assert.Contains(t, f.llm.lastPrompt(), "¿Qué roles hay?\nAdmin y usuario")

	final := f.state(t)
	assert.Equal(t, string(constant.StageStall), final.State)
	assert.Equal(t, string(constant.StageAnalyzeRequisites), final.Extra["from"])
	assert.Equal(t, 2, final.Extra["answers_count"])

	assert.Len(t, f.requirementList(t), 2)
}

func TestUpdateState_AnalysisWithoutQuestionsUsesDefault(t *testing.T) {
	f := newFixture(t)
	f.moveTo(t, constant.StageStall)
	f.llm.script("Todo parece correcto.")

	st, err := f.conversation.UpdateState(context.Background(), f.projectId, &dto.UpdateStateRequest{State: string(constant.StageAnalyzeRequisites)})
	require.NoError(t, err)

	fallback := f.catalog.For("es").NoAnalysisQuestions
	assert.Equal(t, []string{fallback}, st.Extra["questions"])

	msgs := f.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, fallback, msgs[0].Content)
}

func TestSendMessage_AnalyzeWithoutSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uow := f.engine.UowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.ConversationStateRepository().Create(ctx, &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: f.projectId,
		Stage:     constant.StageAnalyzeRequisites,
		Payload:   payloadFor(constant.StageAnalyzeRequisites, "es"),
		Timestamp: time.Now().UTC(),
	}))

	_, err := f.conversation.SendMessage(ctx, f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "answer",
		Sender:    constant.SenderUser,
	})
	requireAppError(t, err, 400)

	count, err := uow.ChatMessageRepository().Count(ctx, specification.ByProjectID{ProjectID: f.projectId})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendMessage_BusyProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	release, err := f.engine.Lock.Acquire(ctx, f.projectId.String())
	require.NoError(t, err)
	defer release()

	_, err = f.conversation.SendMessage(ctx, f.userId, &dto.SendChatMessageRequest{
		ProjectId: f.projectId,
		Content:   "Build a todo app",
		Sender:    constant.SenderUser,
	})
	requireAppError(t, err, 409)
	assert.Zero(t, f.llm.calls())
}

func TestUpdateState_RecordsGenericStage(t *testing.T) {
	f := newFixture(t)

	st, err := f.conversation.UpdateState(context.Background(), f.projectId, &dto.UpdateStateRequest{
		State:    string(constant.StageInit),
		Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "en", st.Extra["lang"])

	f.moveTo(t, constant.StageStall)
	st = f.state(t)
	assert.Equal(t, string(constant.StageStall), st.State)
	assert.Equal(t, "en", st.Extra["lang"])
	_, hasFrom := st.Extra["from"]
	assert.False(t, hasFrom)

	_, err = f.conversation.UpdateState(context.Background(), f.projectId, &dto.UpdateStateRequest{State: "bogus"})
	requireAppError(t, err, 400)
}
