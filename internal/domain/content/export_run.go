package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ExportRunStatusRunning   = "running"
	ExportRunStatusSucceeded = "succeeded"
	ExportRunStatusFailed    = "failed"
)

// ExportRun audits one export invocation. It never feeds back into steps.
type ExportRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExerciseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	ArchiveName string    `gorm:"column:archive_name" json:"archive_name"`
	Status      string    `gorm:"column:status;not null;index" json:"status"`
	ImageCount  int       `gorm:"column:image_count;not null;default:0" json:"image_count"`
	// Skipped is a JSON array of step numbers whose image failed to load.
	Skipped    datatypes.JSON `gorm:"column:skipped" json:"skipped,omitempty"`
	ErrorCode  string         `gorm:"column:error_code" json:"error_code,omitempty"`
	Message    string         `gorm:"column:message" json:"message,omitempty"`
	SHA256     string         `gorm:"column:sha256" json:"sha256,omitempty"`
	SizeBytes  int64          `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	StorageKey string         `gorm:"column:storage_key" json:"storage_key,omitempty"`
	URL        string         `gorm:"column:url" json:"url,omitempty"`

	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ExportRun) TableName() string { return "export_run" }
