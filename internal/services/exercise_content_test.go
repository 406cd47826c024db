package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/motoruniversal-backend/internal/data/repos"
	"github.com/yungbote/motoruniversal-backend/internal/data/repos/testutil"
	"github.com/yungbote/motoruniversal-backend/internal/overlay"
)

func newContentService(t *testing.T) ExerciseContentService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewExerciseContentService(db, log,
		repos.NewStudySessionRepo(db, log),
		repos.NewExerciseRepo(db, log),
		repos.NewExerciseStepRepo(db, log),
		repos.NewStepActionRepo(db, log),
	)
}

func TestImportThenLoadExerciseSteps(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	in := ExerciseImport{
		SessionNumber: 3,
		SessionTitle:  "Operación: Frenos/ABS",
		Title:         "Purga",
		Steps: []overlay.Step{
			{StepNumber: 2},
			{StepNumber: 1, ImageURL: " https://cdn.example.com/1.png ", Actions: []overlay.Action{
				{ActionType: overlay.ActionComment, CommentText: "Inicio", PositionX: f64(1), PositionY: f64(2), Width: f64(30), Height: f64(10)},
				{ActionType: overlay.ActionTextInput, LabelStyle: overlay.LabelTextOnly, Placeholder: "Código"},
			}},
		},
	}
	ex, err := svc.ImportBundle(ctx, in)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}

	b, err := svc.LoadExerciseSteps(ctx, ex.ID)
	if err != nil {
		t.Fatalf("LoadExerciseSteps: %v", err)
	}
	if b.Session.SessionNumber != 3 || b.Session.SessionTitle != "Operación: Frenos/ABS" {
		t.Fatalf("session meta: got=%+v", b.Session)
	}
	if len(b.Steps) != 2 || b.Steps[0].StepNumber != 1 || b.Steps[1].StepNumber != 2 {
		t.Fatalf("steps: got=%+v", b.Steps)
	}
	if b.Steps[0].ImageURL != "https://cdn.example.com/1.png" || b.Steps[1].HasImage() {
		t.Fatalf("image refs: got=%q, %q", b.Steps[0].ImageURL, b.Steps[1].ImageURL)
	}
	acts := b.Steps[0].Actions
	if len(acts) != 2 || acts[0].ActionType != overlay.ActionComment || acts[0].CommentText != "Inicio" {
		t.Fatalf("actions: got=%+v", acts)
	}
	if acts[1].PositionX != nil || acts[1].Placeholder != "Código" {
		t.Fatalf("text input round trip: got=%+v", acts[1])
	}

	// A second import into the same session number reuses the session.
	ex2, err := svc.ImportBundle(ctx, ExerciseImport{SessionNumber: 3, Title: "Otro"})
	if err != nil {
		t.Fatalf("second ImportBundle: %v", err)
	}
	if ex2.SessionID != ex.SessionID {
		t.Fatalf("session reuse: want=%s got=%s", ex.SessionID, ex2.SessionID)
	}
}

func TestImportBundleValidation(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()
	bad := []ExerciseImport{
		{SessionNumber: 1},
		{SessionNumber: 1, Title: "x", Steps: []overlay.Step{{StepNumber: 0}}},
		{SessionNumber: 1, Title: "x", Steps: []overlay.Step{{StepNumber: 1}, {StepNumber: 1}}},
	}
	for i, in := range bad {
		if _, err := svc.ImportBundle(ctx, in); !errors.Is(err, ErrInvalidImport) {
			t.Fatalf("case %d: want ErrInvalidImport got=%v", i, err)
		}
	}
}

func TestLoadExerciseStepsNotFound(t *testing.T) {
	svc := newContentService(t)
	if _, err := svc.LoadExerciseSteps(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
}
