package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type StudySessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error)
	GetByNumber(dbc dbctx.Context, number int) (*types.StudySession, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (r *studySessionRepo) Create(dbc dbctx.Context, sessions []*types.StudySession) ([]*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sessions) == 0 {
		return []*types.StudySession{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByID returns nil, nil when the session does not exist.
func (r *studySessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.StudySession
	if err := transaction.WithContext(dbc.Ctx).
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

func (r *studySessionRepo) GetByNumber(dbc dbctx.Context, number int) (*types.StudySession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.StudySession
	if err := transaction.WithContext(dbc.Ctx).
		Where("session_number = ?", number).
		Order("created_at ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
