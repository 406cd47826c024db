package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/motoruniversal-backend/internal/data/repos/content"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type StudySessionRepo = content.StudySessionRepo
type ExerciseRepo = content.ExerciseRepo
type ExerciseStepRepo = content.ExerciseStepRepo
type StepActionRepo = content.StepActionRepo
type ExportRunRepo = content.ExportRunRepo

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return content.NewStudySessionRepo(db, baseLog)
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return content.NewExerciseRepo(db, baseLog)
}

func NewExerciseStepRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseStepRepo {
	return content.NewExerciseStepRepo(db, baseLog)
}

func NewStepActionRepo(db *gorm.DB, baseLog *logger.Logger) StepActionRepo {
	return content.NewStepActionRepo(db, baseLog)
}

func NewExportRunRepo(db *gorm.DB, baseLog *logger.Logger) ExportRunRepo {
	return content.NewExportRunRepo(db, baseLog)
}
