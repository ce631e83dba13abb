package contract

import (
	"context"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/repository/specification"
)

type RequirementRepository interface {
	Create(ctx context.Context, requirement *entity.Requirement) error
	CreateBatch(ctx context.Context, requirements []*entity.Requirement) error
	DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error
	// MaxNumber returns the highest number in the project, 0 when it has none.
	MaxNumber(ctx context.Context, projectId uuid.UUID) (int, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Requirement, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
