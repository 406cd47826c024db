package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type StepActionRepo interface {
	Create(dbc dbctx.Context, actions []*types.StepAction) ([]*types.StepAction, error)
	GetByStepIDs(dbc dbctx.Context, stepIDs []uuid.UUID) ([]*types.StepAction, error)
}

type stepActionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepActionRepo(db *gorm.DB, baseLog *logger.Logger) StepActionRepo {
	return &stepActionRepo{db: db, log: baseLog.With("repo", "StepActionRepo")}
}

func (r *stepActionRepo) Create(dbc dbctx.Context, actions []*types.StepAction) ([]*types.StepAction, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(actions) == 0 {
		return []*types.StepAction{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// GetByStepIDs orders by step then sort_order; draw order follows sort_order.
func (r *stepActionRepo) GetByStepIDs(dbc dbctx.Context, stepIDs []uuid.UUID) ([]*types.StepAction, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.StepAction
	if len(stepIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("step_id IN ?", stepIDs).
		Order("step_id ASC").
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
