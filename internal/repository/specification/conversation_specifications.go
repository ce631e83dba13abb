package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"requirements-assistant-be/internal/constant"
)

type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

type ByStage struct {
	Stage constant.Stage
}

func (s ByStage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", string(s.Stage))
}

// ExcludeID drops one row, typically the message just written.
type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	if s.ID == uuid.Nil {
		return db
	}
	return db.Where("id <> ?", s.ID)
}

type BySender struct {
	Sender string
}

func (s BySender) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sender = ?", s.Sender)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// Latest orders snapshots newest first.
func Latest() Specification {
	return OrderBy{Field: "last_updated", Desc: true}
}

// Chronological orders chat messages oldest first.
func Chronological() Specification {
	return OrderBy{Field: "timestamp", Desc: false}
}
