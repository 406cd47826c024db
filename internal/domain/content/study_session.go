package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudySession struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionNumber int       `gorm:"column:session_number;not null;index" json:"session_number"`
	Title         string    `gorm:"column:title;not null" json:"title"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudySession) TableName() string { return "study_session" }
