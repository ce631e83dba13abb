package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/pkg/apperror"
	"requirements-assistant-be/internal/repository/specification"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/language"
	"requirements-assistant-be/pkg/parser"
	"requirements-assistant-be/pkg/prompt"
)

type IConversationService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error)
	ListMessages(ctx context.Context, projectId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	GetState(ctx context.Context, projectId uuid.UUID) (*dto.ConversationStateResponse, error)
	UpdateState(ctx context.Context, projectId uuid.UUID, req *dto.UpdateStateRequest) (*dto.ConversationStateResponse, error)
}

type conversationService struct {
	*ConversationEngine
}

func NewConversationService(engine *ConversationEngine) IConversationService {
	return &conversationService{ConversationEngine: engine}
}

// SendMessage advances the project's conversation by one message. The stage
// of the newest snapshot and the sender pick the handler.
func (s *conversationService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error) {
	release, err := s.acquire(ctx, req.ProjectId)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.UowFactory.NewUnitOfWork(ctx)
	latest, err := uow.ConversationStateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: req.ProjectId},
		specification.Latest(),
	)
	if err != nil {
		return nil, err
	}
	stage := stageOf(latest)

	var msg *entity.ChatMessage
	switch {
	case req.Sender == constant.SenderAI:
		msg, err = s.saveVerbatim(ctx, uow, req, stage)
	case stage == constant.StageInit:
		msg, err = s.handleInit(ctx, uow, req, latest)
	case stage == constant.StageSoftwareQuestions:
		msg, err = s.handleSoftwareAnswer(ctx, uow, userId, req, latest)
	case stage == constant.StageAnalyzeRequisites:
		msg, err = s.handleAnalyzeAnswer(ctx, uow, userId, req)
	case stage == constant.StageStall:
		msg, err = s.handleStallChat(ctx, uow, req, latest)
	default:
		// new_requisites has no handler of its own
		msg, err = s.saveVerbatim(ctx, uow, req, stage)
	}
	if err != nil {
		return nil, err
	}

	return toChatMessageResponse(msg), nil
}

func (s *conversationService) saveVerbatim(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.SendChatMessageRequest, stage constant.Stage) (*entity.ChatMessage, error) {
	msg := newChatMessage(req.ProjectId, req.Sender, req.Content, stage, s.clock.next())
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *conversationService) handleInit(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.SendChatMessageRequest, latest *entity.ConversationState) (*entity.ChatMessage, error) {
	lang := language.Resolve(req.Language, latest.Language(), s.DefaultLanguage)
	msgs := s.Catalog.For(lang)

	text, err := s.renderPrompt(prompt.ProjectQuestions, lang, map[string]string{
		"project_description": req.Content,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.ProjectQuestions, text)
	if err != nil {
		return nil, err
	}

	questions := nonEmptyLines(raw)
	if len(questions) == 0 {
		questions = []string{msgs.NoQuestionsGenerated}
	}

	state := &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		Stage:     constant.StageSoftwareQuestions,
		Payload:   entity.NewQuestionnaire("", lang, questions),
		Timestamp: s.clock.next(),
	}
	userMsg := newChatMessage(req.ProjectId, constant.SenderUser, req.Content, constant.StageInit, s.clock.next())
	aiMsg := newChatMessage(req.ProjectId, constant.SenderAI, questions[0], constant.StageSoftwareQuestions, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationStateRepository().Create(ctx, state); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, req.ProjectId, constant.StageInit, constant.StageSoftwareQuestions, lang)
	return aiMsg, nil
}

func (s *conversationService) handleSoftwareAnswer(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.SendChatMessageRequest, latest *entity.ConversationState) (*entity.ChatMessage, error) {
	payload, ok := latest.Payload.(entity.QuestionnairePayload)
	if !ok {
		payload = entity.QuestionnairePayload{Lang: latest.Language()}
	}
	lang := language.Resolve(req.Language, payload.Lang, s.DefaultLanguage)

	next := payload.Answer(req.Content)
	next.Lang = lang
	userMsg := newChatMessage(req.ProjectId, constant.SenderUser, req.Content, constant.StageSoftwareQuestions, s.clock.next())

	if question, ok := next.NextQuestion(); ok {
		return s.askNext(ctx, uow, latest, next, userMsg, question)
	}

	description, err := s.Contexts.ProjectDescription(ctx, uow, req.ProjectId)
	if err != nil {
		return nil, err
	}

	text, err := s.renderPrompt(prompt.GenerateNewRequisites, lang, map[string]string{
		"project_description":   description,
		"questions_and_answers": next.Transcript(),
		"style_example_block":   prompt.ExampleBlock(req.ExampleSamples),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.GenerateNewRequisites, text)
	if err != nil {
		return nil, err
	}
	items := parser.ParseRequirements(raw)

	state := &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		Stage:     constant.StageNewRequisites,
		Payload:   next,
		Timestamp: s.clock.next(),
	}
	aiMsg := newChatMessage(req.ProjectId, constant.SenderAI, s.Catalog.For(lang).RequirementsGenerated, constant.StageNewRequisites, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	if err := uow.ConversationStateRepository().Create(ctx, state); err != nil {
		return nil, err
	}
	written, err := s.Mutator.Replace(ctx, uow, req.ProjectId, userId, items)
	if err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, req.ProjectId, constant.StageSoftwareQuestions, constant.StageNewRequisites, lang)
	s.afterRequirements(ctx, req.ProjectId, constant.RequirementMutationReplace, "", len(written))
	return aiMsg, nil
}

func (s *conversationService) handleAnalyzeAnswer(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.SendChatMessageRequest) (*entity.ChatMessage, error) {
	session, err := uow.ConversationStateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: req.ProjectId},
		specification.ByStage{Stage: constant.StageAnalyzeRequisites},
		specification.Latest(),
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.BadRequest("Analyze session not initialized")
	}
	payload, ok := session.Payload.(entity.QuestionnairePayload)
	if !ok || len(payload.Questions) == 0 {
		return nil, apperror.BadRequest("Analyze session not initialized")
	}

	lang := language.Resolve(req.Language, payload.Lang, s.DefaultLanguage)
	msgs := s.Catalog.For(lang)

	next := payload.Answer(req.Content)
	next.Lang = lang
	userMsg := newChatMessage(req.ProjectId, constant.SenderUser, req.Content, constant.StageAnalyzeRequisites, s.clock.next())

	if question, ok := next.NextQuestion(); ok {
		return s.askNext(ctx, uow, session, next, userMsg, question)
	}

	description, err := s.Contexts.ProjectDescription(ctx, uow, req.ProjectId)
	if err != nil {
		return nil, err
	}
	current, err := s.Contexts.Requirements(ctx, uow, req.ProjectId, msgs)
	if err != nil {
		return nil, err
	}

	text, err := s.renderPrompt(prompt.ImproveRequisites, lang, map[string]string{
		"project_description":   description,
		"current_requirements":  current,
		"questions_and_answers": next.Transcript(),
		"style_example_block":   prompt.ExampleBlock(req.ExampleSamples),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.ImproveRequisites, text)
	if err != nil {
		return nil, err
	}
	items := parser.ParseRequirements(raw)

	stall := &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		Stage:     constant.StageStall,
		Payload: entity.StallPayload{
			From:         constant.StageAnalyzeRequisites,
			AnswersCount: len(next.Answers),
			Lang:         lang,
		},
		Timestamp: s.clock.next(),
	}
	aiMsg := newChatMessage(req.ProjectId, constant.SenderAI, msgs.AnalysisCompleted, constant.StageStall, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	written, err := s.Mutator.Replace(ctx, uow, req.ProjectId, userId, items)
	if err != nil {
		return nil, err
	}
	if err := uow.ConversationStateRepository().Create(ctx, stall); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, req.ProjectId, constant.StageAnalyzeRequisites, constant.StageStall, lang)
	s.afterRequirements(ctx, req.ProjectId, constant.RequirementMutationReplace, "", len(written))
	return aiMsg, nil
}

// askNext stores a progress update of a questionnaire snapshot together with
// the user's answer and the following question.
func (s *conversationService) askNext(ctx context.Context, uow unitofwork.UnitOfWork, state *entity.ConversationState, next entity.QuestionnairePayload, userMsg *entity.ChatMessage, question string) (*entity.ChatMessage, error) {
	state.Payload = next
	state.Timestamp = s.clock.next()
	aiMsg := newChatMessage(state.ProjectId, constant.SenderAI, question, state.Stage, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationStateRepository().Update(ctx, state); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return aiMsg, nil
}

func (s *conversationService) handleStallChat(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.SendChatMessageRequest, latest *entity.ConversationState) (*entity.ChatMessage, error) {
	lang := language.Resolve(req.Language, latest.Language(), s.DefaultLanguage)
	msgs := s.Catalog.For(lang)
	userMsg := newChatMessage(req.ProjectId, constant.SenderUser, req.Content, constant.StageStall, s.clock.next())

	description, err := s.Contexts.ProjectDescription(ctx, uow, req.ProjectId)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		description = msgs.NoDescription
	}
	current, err := s.Contexts.Requirements(ctx, uow, req.ProjectId, msgs)
	if err != nil {
		return nil, err
	}
	history, err := s.Contexts.RecentHistory(ctx, uow, req.ProjectId, userMsg.Id, msgs)
	if err != nil {
		return nil, err
	}

	text, err := s.Renderer.Render(prompt.StallChat, map[string]string{
		"lang":                 lang,
		"project_description":  description,
		"current_requirements": current,
		"chat_history":         history,
		"user_message":         req.Content,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.StallChat, text)
	if err != nil {
		return nil, err
	}
	aiMsg := newChatMessage(req.ProjectId, constant.SenderAI, strings.TrimSpace(raw), constant.StageStall, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return aiMsg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, projectId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.UowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.Chronological(),
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toChatMessageResponse(m))
	}
	return res, nil
}

func (s *conversationService) GetState(ctx context.Context, projectId uuid.UUID) (*dto.ConversationStateResponse, error) {
	uow := s.UowFactory.NewUnitOfWork(ctx)
	state, err := uow.ConversationStateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.Latest(),
	)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, apperror.NotFound("Conversation state not found")
	}
	return toStateResponse(state), nil
}

// UpdateState either opens an analysis round (analyze_requisites) or appends
// a snapshot with the requested stage.
func (s *conversationService) UpdateState(ctx context.Context, projectId uuid.UUID, req *dto.UpdateStateRequest) (*dto.ConversationStateResponse, error) {
	stage := constant.Stage(req.State)
	if !stage.Valid() {
		return nil, apperror.BadRequest("Invalid state")
	}

	release, err := s.acquire(ctx, projectId)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.UowFactory.NewUnitOfWork(ctx)
	latest, err := uow.ConversationStateRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.Latest(),
	)
	if err != nil {
		return nil, err
	}

	var state *entity.ConversationState
	if stage == constant.StageAnalyzeRequisites {
		state, err = s.startAnalysis(ctx, uow, projectId, req.Language, latest)
	} else {
		state, err = s.recordState(ctx, uow, projectId, stage, req.Language, latest)
	}
	if err != nil {
		return nil, err
	}
	return toStateResponse(state), nil
}

func (s *conversationService) startAnalysis(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, explicitLang string, latest *entity.ConversationState) (*entity.ConversationState, error) {
	if stageOf(latest) != constant.StageStall {
		return nil, apperror.BadRequest("State machine not in stall")
	}

	lang := language.Resolve(explicitLang, latest.Language(), s.DefaultLanguage)
	msgs := s.Catalog.For(lang)

	current, err := s.Contexts.Requirements(ctx, uow, projectId, msgs)
	if err != nil {
		return nil, err
	}

	text, err := s.renderPrompt(prompt.AnalyzeRequisites, lang, map[string]string{
		"current_requirements": current,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.AnalyzeRequisites, text)
	if err != nil {
		return nil, err
	}

	comments, questions := parser.ParseAnalysis(raw)
	if len(questions) == 0 {
		questions = []string{msgs.NoAnalysisQuestions}
	}

	state := &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: projectId,
		Stage:     constant.StageAnalyzeRequisites,
		Payload:   entity.NewQuestionnaire(constant.AnalyzeMode, lang, questions),
		Timestamp: s.clock.next(),
	}

	var replies []*entity.ChatMessage
	if comments = strings.TrimSpace(comments); comments != "" {
		replies = append(replies, newChatMessage(projectId, constant.SenderAI, comments, constant.StageAnalyzeRequisites, s.clock.next()))
	}
	replies = append(replies, newChatMessage(projectId, constant.SenderAI, questions[0], constant.StageAnalyzeRequisites, s.clock.next()))

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationStateRepository().Create(ctx, state); err != nil {
		return nil, err
	}
	for _, m := range replies {
		if err := uow.ChatMessageRepository().Create(ctx, m); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, projectId, constant.StageStall, constant.StageAnalyzeRequisites, lang)
	return state, nil
}

func (s *conversationService) recordState(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, stage constant.Stage, explicitLang string, latest *entity.ConversationState) (*entity.ConversationState, error) {
	lang := language.Resolve(explicitLang, latest.Language(), s.DefaultLanguage)
	state := &entity.ConversationState{
		Id:        uuid.New(),
		ProjectId: projectId,
		Stage:     stage,
		Payload:   payloadFor(stage, lang),
		Timestamp: s.clock.next(),
	}

	if err := uow.ConversationStateRepository().Create(ctx, state); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, projectId, stageOf(latest), stage, lang)
	return state, nil
}
