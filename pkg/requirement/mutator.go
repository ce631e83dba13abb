// Package requirement applies parsed requirement lists to a project's stored
// requirements.
package requirement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/parser"
)

// Mutator writes through the caller's unit of work. Both operations must run
// inside an open transaction; nothing is durable until the caller commits, and
// a rollback leaves the previous requirement set untouched.
type Mutator struct{}

func NewMutator() *Mutator {
	return &Mutator{}
}

// Replace deletes every requirement of the project and inserts items with the
// numbers the parser assigned (1.. within each category block).
func (m *Mutator) Replace(ctx context.Context, uow unitofwork.UnitOfWork, projectId, ownerId uuid.UUID, items []parser.ParsedRequirement) ([]*entity.Requirement, error) {
	repo := uow.RequirementRepository()
	if err := repo.DeleteByProjectId(ctx, projectId); err != nil {
		return nil, fmt.Errorf("delete requirements: %w", err)
	}

	reqs := make([]*entity.Requirement, len(items))
	for i, it := range items {
		reqs[i] = newRequirement(projectId, ownerId, it, it.Number)
	}
	if err := repo.CreateBatch(ctx, reqs); err != nil {
		return nil, fmt.Errorf("insert requirements: %w", err)
	}
	return reqs, nil
}

// Append numbers items after the project's current maximum, ignoring the
// category-local numbers from the parser.
func (m *Mutator) Append(ctx context.Context, uow unitofwork.UnitOfWork, projectId, ownerId uuid.UUID, items []parser.ParsedRequirement) ([]*entity.Requirement, error) {
	repo := uow.RequirementRepository()
	max, err := repo.MaxNumber(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("max requirement number: %w", err)
	}

	reqs := make([]*entity.Requirement, len(items))
	for i, it := range items {
		reqs[i] = newRequirement(projectId, ownerId, it, max+i+1)
	}
	if err := repo.CreateBatch(ctx, reqs); err != nil {
		return nil, fmt.Errorf("insert requirements: %w", err)
	}
	return reqs, nil
}

func newRequirement(projectId, ownerId uuid.UUID, it parser.ParsedRequirement, number int) *entity.Requirement {
	return &entity.Requirement{
		Id:          uuid.New(),
		ProjectId:   projectId,
		OwnerId:     ownerId,
		Description: it.Description,
		Status:      it.Status,
		Category:    it.Category,
		Priority:    it.Priority,
		Number:      number,
	}
}
