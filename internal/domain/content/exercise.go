package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Exercise struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"session_id"`
	Session     *StudySession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	Title       string        `gorm:"column:title;not null" json:"title"`
	Description string        `gorm:"column:description" json:"description"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string { return "exercise" }

// ExerciseStep is one screen of an exercise. A nil ImageURL marks a step
// that is never exported.
type ExerciseStep struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index:idx_exercise_step_number,unique" json:"exercise_id"`
	StepNumber int       `gorm:"column:step_number;not null;index:idx_exercise_step_number,unique" json:"step_number"`
	Title      string    `gorm:"column:title" json:"title"`
	ImageURL   *string   `gorm:"column:image_url" json:"image_url"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ExerciseStep) TableName() string { return "exercise_step" }

type StepAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StepID     uuid.UUID `gorm:"type:uuid;not null;index" json:"step_id"`
	SortOrder  int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	ActionType string    `gorm:"column:action_type;not null" json:"action_type"`

	PositionX *float64 `gorm:"column:position_x" json:"position_x"`
	PositionY *float64 `gorm:"column:position_y" json:"position_y"`
	Width     *float64 `gorm:"column:width" json:"width"`
	Height    *float64 `gorm:"column:height" json:"height"`

	Label       string `gorm:"column:label" json:"label"`
	Placeholder string `gorm:"column:placeholder" json:"placeholder"`
	LabelStyle  string `gorm:"column:label_style" json:"label_style"`

	CommentText      *string  `gorm:"column:comment_text" json:"comment_text"`
	CommentBgColor   *string  `gorm:"column:comment_bg_color" json:"comment_bg_color"`
	CommentTextColor *string  `gorm:"column:comment_text_color" json:"comment_text_color"`
	CommentFontSize  *float64 `gorm:"column:comment_font_size" json:"comment_font_size"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StepAction) TableName() string { return "step_action" }
