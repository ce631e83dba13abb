package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/mapper"
	"requirements-assistant-be/internal/model"
	"requirements-assistant-be/internal/repository/contract"
	"requirements-assistant-be/internal/repository/specification"
)

type ConversationStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationStateRepository(db *gorm.DB) contract.ConversationStateRepository {
	return &ConversationStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationStateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationStateRepositoryImpl) Create(ctx context.Context, state *entity.ConversationState) error {
	m := r.mapper.ConversationStateToModel(state)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*state = *r.mapper.ConversationStateToEntity(m)
	return nil
}

func (r *ConversationStateRepositoryImpl) Update(ctx context.Context, state *entity.ConversationState) error {
	m := r.mapper.ConversationStateToModel(state)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*state = *r.mapper.ConversationStateToEntity(m)
	return nil
}

func (r *ConversationStateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationState, error) {
	var m model.ConversationState
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationStateToEntity(&m), nil
}

func (r *ConversationStateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationState, error) {
	var models []*model.ConversationState
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationState, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ConversationStateToEntity(m)
	}
	return entities, nil
}
