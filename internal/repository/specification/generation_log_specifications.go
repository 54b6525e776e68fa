package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySession struct {
	SessionID uuid.UUID
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByMode struct {
	Mode string
}

func (s ByMode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mode = ?", s.Mode)
}

type ByOutcome struct {
	Outcome string
}

func (s ByOutcome) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("outcome = ?", s.Outcome)
}

type BySubject struct {
	SubjectID int64
}

func (s BySubject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subject_id = ?", s.SubjectID)
}
