package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateStateRequest struct {
	State    string `json:"state" validate:"required,oneof=init software_questions new_requisites analyze_requisites stall"`
	Language string `json:"language" validate:"omitempty,max=16"`
}

type ConversationStateResponse struct {
	Id          uuid.UUID              `json:"id"`
	ProjectId   uuid.UUID              `json:"project_id"`
	State       string                 `json:"state"`
	Extra       map[string]interface{} `json:"extra"`
	LastUpdated time.Time              `json:"last_updated"`
}
