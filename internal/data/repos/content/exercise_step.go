package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type ExerciseStepRepo interface {
	Create(dbc dbctx.Context, steps []*types.ExerciseStep) ([]*types.ExerciseStep, error)
	GetByExerciseID(dbc dbctx.Context, exerciseID uuid.UUID) ([]*types.ExerciseStep, error)
	GetByExerciseIDAndNumber(dbc dbctx.Context, exerciseID uuid.UUID, stepNumber int) (*types.ExerciseStep, error)
}

type exerciseStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseStepRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseStepRepo {
	return &exerciseStepRepo{db: db, log: baseLog.With("repo", "ExerciseStepRepo")}
}

func (r *exerciseStepRepo) Create(dbc dbctx.Context, steps []*types.ExerciseStep) ([]*types.ExerciseStep, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(steps) == 0 {
		return []*types.ExerciseStep{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

// GetByExerciseID returns steps in ascending step_number.
func (r *exerciseStepRepo) GetByExerciseID(dbc dbctx.Context, exerciseID uuid.UUID) ([]*types.ExerciseStep, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ExerciseStep
	if exerciseID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("exercise_id = ?", exerciseID).
		Order("step_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exerciseStepRepo) GetByExerciseIDAndNumber(dbc dbctx.Context, exerciseID uuid.UUID, stepNumber int) (*types.ExerciseStep, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ExerciseStep
	if err := transaction.WithContext(dbc.Ctx).
		Where("exercise_id = ? AND step_number = ?", exerciseID, stepNumber).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
