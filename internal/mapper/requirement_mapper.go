package mapper

import (
	"time"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/model"
)

type RequirementMapper struct{}

func NewRequirementMapper() *RequirementMapper {
	return &RequirementMapper{}
}

func (m *RequirementMapper) ToEntity(r *model.Requirement) *entity.Requirement {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Requirement{
		Id:              r.Id,
		ProjectId:       r.ProjectId,
		OwnerId:         r.OwnerId,
		Description:     r.Description,
		Status:          r.Status,
		Category:        r.Category,
		Priority:        r.Priority,
		VisualReference: r.VisualReference,
		Number:          r.Number,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *RequirementMapper) ToModel(r *entity.Requirement) *model.Requirement {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Requirement{
		Id:              r.Id,
		ProjectId:       r.ProjectId,
		OwnerId:         r.OwnerId,
		Description:     r.Description,
		Status:          r.Status,
		Category:        r.Category,
		Priority:        r.Priority,
		VisualReference: r.VisualReference,
		Number:          r.Number,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
