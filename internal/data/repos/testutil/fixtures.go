package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/motoruniversal-backend/internal/domain"
)

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, number int, title string) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{SessionNumber: number, Title: title}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, session *types.StudySession, title string) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{SessionID: session.ID, Title: title}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return e
}

// SeedStep stores a step; an empty imageURL stores NULL.
func SeedStep(tb testing.TB, ctx context.Context, tx *gorm.DB, ex *types.Exercise, number int, imageURL string) *types.ExerciseStep {
	tb.Helper()
	st := &types.ExerciseStep{ExerciseID: ex.ID, StepNumber: number}
	if imageURL != "" {
		st.ImageURL = &imageURL
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed step: %v", err)
	}
	return st
}

func SeedAction(tb testing.TB, ctx context.Context, tx *gorm.DB, a *types.StepAction) *types.StepAction {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed action: %v", err)
	}
	return a
}

func F64(v float64) *float64 { return &v }
func Str(v string) *string    { return &v }
