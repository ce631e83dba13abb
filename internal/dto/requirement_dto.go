package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateRequirementsRequest struct {
	ProjectId      uuid.UUID `json:"project_id" validate:"required"`
	Category       string    `json:"category" validate:"required"`
	Language       string    `json:"language" validate:"omitempty,max=16"`
	ExampleSamples []string  `json:"example_samples"`
}

type CreateRequirementRequest struct {
	ProjectId       uuid.UUID
	Description     string  `json:"description" validate:"required"`
	Status          string  `json:"status" validate:"omitempty,oneof=draft approved rejected in-review"`
	Category        string  `json:"category" validate:"omitempty,oneof=functional performance usability security technical"`
	Priority        string  `json:"priority" validate:"omitempty,oneof=must should could wont"`
	VisualReference *string `json:"visual_reference"`
}

type RequirementResponse struct {
	Id              uuid.UUID  `json:"id"`
	ProjectId       uuid.UUID  `json:"project_id"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Category        string     `json:"category"`
	Priority        string     `json:"priority"`
	VisualReference *string    `json:"visual_reference"`
	Number          int        `json:"number"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}
