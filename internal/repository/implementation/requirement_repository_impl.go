package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/mapper"
	"requirements-assistant-be/internal/model"
	"requirements-assistant-be/internal/repository/contract"
	"requirements-assistant-be/internal/repository/specification"
)

type RequirementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RequirementMapper
}

func NewRequirementRepository(db *gorm.DB) contract.RequirementRepository {
	return &RequirementRepositoryImpl{
		db:     db,
		mapper: mapper.NewRequirementMapper(),
	}
}

func (r *RequirementRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RequirementRepositoryImpl) Create(ctx context.Context, requirement *entity.Requirement) error {
	m := r.mapper.ToModel(requirement)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*requirement = *r.mapper.ToEntity(m)
	return nil
}

func (r *RequirementRepositoryImpl) CreateBatch(ctx context.Context, requirements []*entity.Requirement) error {
	if len(requirements) == 0 {
		return nil
	}
	models := make([]*model.Requirement, len(requirements))
	for i, req := range requirements {
		models[i] = r.mapper.ToModel(req)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*requirements[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *RequirementRepositoryImpl) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectId).Delete(&model.Requirement{}).Error
}

func (r *RequirementRepositoryImpl) MaxNumber(ctx context.Context, projectId uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Requirement{}).
		Where("project_id = ?", projectId).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *RequirementRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Requirement, error) {
	var models []*model.Requirement
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Requirement, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *RequirementRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Requirement{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
