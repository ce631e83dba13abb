package unitofwork

import (
	"context"

	"requirements-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationStateRepository() contract.ConversationStateRepository
	ChatMessageRepository() contract.ChatMessageRepository
	RequirementRepository() contract.RequirementRepository
}
