package contract

import (
	"context"

	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/repository/specification"
)

type ConversationStateRepository interface {
	Create(ctx context.Context, state *entity.ConversationState) error
	Update(ctx context.Context, state *entity.ConversationState) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationState, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationState, error)
}
