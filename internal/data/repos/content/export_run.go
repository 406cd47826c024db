package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type ExportRunRepo interface {
	Create(dbc dbctx.Context, runs []*types.ExportRun) ([]*types.ExportRun, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByExerciseID(dbc dbctx.Context, exerciseID uuid.UUID, limit int) ([]*types.ExportRun, error)
}

type exportRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExportRunRepo(db *gorm.DB, baseLog *logger.Logger) ExportRunRepo {
	return &exportRunRepo{db: db, log: baseLog.With("repo", "ExportRunRepo")}
}

func (r *exportRunRepo) Create(dbc dbctx.Context, runs []*types.ExportRun) ([]*types.ExportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(runs) == 0 {
		return []*types.ExportRun{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *exportRunRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ExportRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListByExerciseID returns newest first. limit <= 0 means 50.
func (r *exportRunRepo) ListByExerciseID(dbc dbctx.Context, exerciseID uuid.UUID, limit int) ([]*types.ExportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.ExportRun
	if exerciseID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("exercise_id = ?", exerciseID).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
