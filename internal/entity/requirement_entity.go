package entity

import (
	"time"

	"github.com/google/uuid"
)

type Requirement struct {
	Id              uuid.UUID
	ProjectId       uuid.UUID
	OwnerId         uuid.UUID
	Description     string
	Status          string
	Category        string
	Priority        string
	VisualReference *string
	Number          int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
