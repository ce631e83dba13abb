package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/pkg/apperror"
	"requirements-assistant-be/internal/repository/specification"
	"requirements-assistant-be/pkg/language"
	"requirements-assistant-be/pkg/parser"
	"requirements-assistant-be/pkg/prompt"
)

type IRequirementService interface {
	GenerateForCategory(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequirementsRequest) (*dto.ChatMessageResponse, error)
	List(ctx context.Context, projectId uuid.UUID, category string) ([]*dto.RequirementResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateRequirementRequest) (*dto.RequirementResponse, error)
}

type requirementService struct {
	*ConversationEngine
}

func NewRequirementService(engine *ConversationEngine) IRequirementService {
	return &requirementService{ConversationEngine: engine}
}

// GenerateForCategory asks for more requirements of one category while the
// conversation is in stall and appends them after the current maximum number.
func (s *requirementService) GenerateForCategory(ctx context.Context, userId uuid.UUID, req *dto.GenerateRequirementsRequest) (*dto.ChatMessageResponse, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))

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
	if stageOf(latest) != constant.StageStall {
		return nil, apperror.BadRequest("State machine not in stall")
	}
	if !parser.IsCategory(category) {
		return nil, apperror.BadRequest("Invalid category")
	}

	lang := language.Resolve(req.Language, latest.Language(), s.DefaultLanguage)
	msgs := s.Catalog.For(lang)

	description, err := s.Contexts.ProjectDescription(ctx, uow, req.ProjectId)
	if err != nil {
		return nil, err
	}
	current, err := s.Contexts.Requirements(ctx, uow, req.ProjectId, msgs)
	if err != nil {
		return nil, err
	}

	text, err := s.renderPrompt(prompt.AddRequisites, lang, map[string]string{
		"category":             strings.ToUpper(category),
		"project_description":  description,
		"current_requirements": current,
		"style_example_block":  prompt.ExampleBlock(req.ExampleSamples),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt.AddRequisites, text)
	if err != nil {
		return nil, err
	}
	items := parser.FilterCategory(parser.ParseRequirements(raw), category)

	confirmation, err := msgs.RequirementsAddedFor(category)
	if err != nil {
		return nil, err
	}
	aiMsg := newChatMessage(req.ProjectId, constant.SenderAI, confirmation, constant.StageStall, s.clock.next())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	written, err := s.Mutator.Append(ctx, uow, req.ProjectId, userId, items)
	if err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMsg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterRequirements(ctx, req.ProjectId, constant.RequirementMutationAppend, category, len(written))
	return toChatMessageResponse(aiMsg), nil
}

// List returns the project's requirements, optionally narrowed to one category.
func (s *requirementService) List(ctx context.Context, projectId uuid.UUID, category string) ([]*dto.RequirementResponse, error) {
	specs := []specification.Specification{specification.ByProjectID{ProjectID: projectId}}
	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		if !parser.IsCategory(category) {
			return nil, apperror.BadRequest("Invalid category")
		}
		specs = append(specs, specification.ByCategory{Category: category})
	}
	specs = append(specs,
		specification.OrderBy{Field: "number"},
		specification.OrderBy{Field: "created_at"},
	)

	uow := s.UowFactory.NewUnitOfWork(ctx)
	reqs, err := uow.RequirementRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.RequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		res = append(res, toRequirementResponse(r))
	}
	return res, nil
}

// Create adds a hand-written requirement numbered after the project's maximum.
func (s *requirementService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateRequirementRequest) (*dto.RequirementResponse, error) {
	release, err := s.acquire(ctx, req.ProjectId)
	if err != nil {
		return nil, err
	}
	defer release()

	r := &entity.Requirement{
		Id:              uuid.New(),
		ProjectId:       req.ProjectId,
		OwnerId:         userId,
		Description:     strings.TrimSpace(req.Description),
		Status:          orDefault(req.Status, constant.RequirementStatusDraft),
		Category:        orDefault(strings.ToLower(req.Category), constant.RequirementCategoryFunctional),
		Priority:        orDefault(req.Priority, constant.RequirementPriorityMust),
		VisualReference: req.VisualReference,
		CreatedAt:       time.Now().UTC(),
	}

	uow := s.UowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	max, err := uow.RequirementRepository().MaxNumber(ctx, req.ProjectId)
	if err != nil {
		return nil, err
	}
	r.Number = max + 1

	if err := uow.RequirementRepository().Create(ctx, r); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterRequirements(ctx, req.ProjectId, constant.RequirementMutationAppend, r.Category, 1)
	return toRequirementResponse(r), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func toRequirementResponse(r *entity.Requirement) *dto.RequirementResponse {
	return &dto.RequirementResponse{
		Id:              r.Id,
		ProjectId:       r.ProjectId,
		Description:     r.Description,
		Status:          r.Status,
		Category:        r.Category,
		Priority:        r.Priority,
		VisualReference: r.VisualReference,
		Number:          r.Number,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
