package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type ExerciseRepo interface {
	Create(dbc dbctx.Context, exercises []*types.Exercise) ([]*types.Exercise, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Exercise, error)
	GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Exercise, error)
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return &exerciseRepo{db: db, log: baseLog.With("repo", "ExerciseRepo")}
}

func (r *exerciseRepo) Create(dbc dbctx.Context, exercises []*types.Exercise) ([]*types.Exercise, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(exercises) == 0 {
		return []*types.Exercise{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Session").Create(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByID preloads the session and returns nil, nil when missing.
func (r *exerciseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Exercise, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Exercise
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Session").
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *exerciseRepo) GetBySessionID(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Exercise, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Exercise
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
