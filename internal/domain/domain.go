package domain

import "github.com/yungbote/motoruniversal-backend/internal/domain/content"

type StudySession = content.StudySession
type Exercise = content.Exercise
type ExerciseStep = content.ExerciseStep
type StepAction = content.StepAction
type ExportRun = content.ExportRun

const (
	ExportRunStatusRunning   = content.ExportRunStatusRunning
	ExportRunStatusSucceeded = content.ExportRunStatusSucceeded
	ExportRunStatusFailed    = content.ExportRunStatusFailed
)
