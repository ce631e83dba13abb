package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationState struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProjectId   uuid.UUID      `gorm:"type:uuid;not null;index:idx_conversation_states_project_updated,priority:1"`
	State       string         `gorm:"type:varchar(50);not null;index"`
	Extra       datatypes.JSON `gorm:"type:jsonb"`
	LastUpdated time.Time      `gorm:"not null;index:idx_conversation_states_project_updated,priority:2"`
}

func (ConversationState) TableName() string {
	return "conversation_states"
}
