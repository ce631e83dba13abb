package model

import (
	"time"

	"github.com/google/uuid"
)

type Requirement struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectId       uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Description     string    `gorm:"type:text;not null"`
	Status          string    `gorm:"type:varchar(20);not null;default:'draft'"`
	Category        string    `gorm:"type:varchar(20);not null"`
	Priority        string    `gorm:"type:varchar(10);not null;default:'must'"`
	VisualReference *string   `gorm:"type:text"`
	Number          int       `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Requirement) TableName() string {
	return "requirements"
}
