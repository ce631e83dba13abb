package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatMessageRequest struct {
	ProjectId      uuid.UUID `json:"project_id" validate:"required"`
	Content        string    `json:"content" validate:"required"`
	Sender         string    `json:"sender" validate:"required,oneof=user ai"`
	Language       string    `json:"language" validate:"omitempty,max=16"`
	ExampleSamples []string  `json:"example_samples"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	ProjectId uuid.UUID `json:"project_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}
