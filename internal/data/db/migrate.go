package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Study content (read-only to exports)
		&types.StudySession{},
		&types.Exercise{},
		&types.ExerciseStep{},
		&types.StepAction{},

		// Export audit
		&types.ExportRun{},
	)
}
