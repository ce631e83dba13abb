package entity

import (
	"time"

	"github.com/google/uuid"

	"requirements-assistant-be/internal/constant"
)

type ChatMessage struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	Content   string
	Sender    string
	Stage     constant.Stage
	Timestamp time.Time
}
