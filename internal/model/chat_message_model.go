package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectId uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_project_ts,priority:1"`
	Content   string    `gorm:"type:text;not null"`
	Sender    string    `gorm:"type:varchar(10);not null"`
	State     string    `gorm:"type:varchar(50);not null"`
	Timestamp time.Time `gorm:"not null;index:idx_chat_messages_project_ts,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
