package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *StudySession) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (e *Exercise) BeforeCreate(tx *gorm.DB) error     { ensureID(&e.ID); return nil }
func (s *ExerciseStep) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (a *StepAction) BeforeCreate(tx *gorm.DB) error   { ensureID(&a.ID); return nil }
func (r *ExportRun) BeforeCreate(tx *gorm.DB) error    { ensureID(&r.ID); return nil }
