package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/motoruniversal-backend/internal/data/repos"
	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/export"
	"github.com/yungbote/motoruniversal-backend/internal/overlay"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

// ExerciseBundle is everything an export needs for one exercise.
type ExerciseBundle struct {
	Exercise *types.Exercise    `json:"exercise"`
	Session  export.SessionMeta `json:"session"`
	Steps    []overlay.Step     `json:"steps"`
}

// ExerciseImport is the on-disk fixture shape used by the CLI.
type ExerciseImport struct {
	SessionNumber int            `json:"session_number" yaml:"session_number"`
	SessionTitle  string         `json:"session_title" yaml:"session_title"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Steps         []overlay.Step `json:"steps" yaml:"steps"`
}

func (in ExerciseImport) Meta() export.SessionMeta {
	return export.SessionMeta{SessionNumber: in.SessionNumber, SessionTitle: in.SessionTitle}
}

type ExerciseContentService interface {
	LoadExerciseSteps(ctx context.Context, exerciseID uuid.UUID) (*ExerciseBundle, error)
	ImportBundle(ctx context.Context, in ExerciseImport) (*types.Exercise, error)
}

type exerciseContentService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.StudySessionRepo
	exerciseRepo repos.ExerciseRepo
	stepRepo     repos.ExerciseStepRepo
	actionRepo   repos.StepActionRepo
}

func NewExerciseContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.StudySessionRepo,
	exerciseRepo repos.ExerciseRepo,
	stepRepo repos.ExerciseStepRepo,
	actionRepo repos.StepActionRepo,
) ExerciseContentService {
	return &exerciseContentService{
		db:           db,
		log:          baseLog.With("service", "ExerciseContentService"),
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		stepRepo:     stepRepo,
		actionRepo:   actionRepo,
	}
}

func (s *exerciseContentService) LoadExerciseSteps(ctx context.Context, exerciseID uuid.UUID) (*ExerciseBundle, error) {
	dbc := dbctx.Context{Ctx: ctx}
	ex, err := s.exerciseRepo.GetByID(dbc, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("load exercise: %w", err)
	}
	if ex == nil {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}

	steps, err := s.stepRepo.GetByExerciseID(dbc, ex.ID)
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}
	stepIDs := make([]uuid.UUID, 0, len(steps))
	for _, st := range steps {
		stepIDs = append(stepIDs, st.ID)
	}
	actions, err := s.actionRepo.GetByStepIDs(dbc, stepIDs)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}
	byStep := map[uuid.UUID][]*types.StepAction{}
	for _, a := range actions {
		byStep[a.StepID] = append(byStep[a.StepID], a)
	}

	bundle := &ExerciseBundle{Exercise: ex, Steps: make([]overlay.Step, 0, len(steps))}
	if ex.Session != nil {
		bundle.Session = export.SessionMeta{SessionNumber: ex.Session.SessionNumber, SessionTitle: ex.Session.Title}
	}
	for _, st := range steps {
		bundle.Steps = append(bundle.Steps, toOverlayStep(st, byStep[st.ID]))
	}
	return bundle, nil
}

func (s *exerciseContentService) ImportBundle(ctx context.Context, in ExerciseImport) (*types.Exercise, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidImport)
	}
	seen := map[int]bool{}
	for _, st := range in.Steps {
		if st.StepNumber <= 0 {
			return nil, fmt.Errorf("%w: step_number must be positive (got %d)", ErrInvalidImport, st.StepNumber)
		}
		if seen[st.StepNumber] {
			return nil, fmt.Errorf("%w: duplicate step_number %d", ErrInvalidImport, st.StepNumber)
		}
		seen[st.StepNumber] = true
	}

	var out *types.Exercise
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		session, err := s.sessionRepo.GetByNumber(dbc, in.SessionNumber)
		if err != nil {
			return fmt.Errorf("lookup session: %w", err)
		}
		if session == nil {
			session = &types.StudySession{SessionNumber: in.SessionNumber, Title: in.SessionTitle}
			if _, err := s.sessionRepo.Create(dbc, []*types.StudySession{session}); err != nil {
				return fmt.Errorf("create session: %w", err)
			}
		}

		ex := &types.Exercise{SessionID: session.ID, Title: in.Title, Description: in.Description}
		if _, err := s.exerciseRepo.Create(dbc, []*types.Exercise{ex}); err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}

		for _, st := range in.Steps {
			row := &types.ExerciseStep{ExerciseID: ex.ID, StepNumber: st.StepNumber}
			if st.HasImage() {
				ref := strings.TrimSpace(st.ImageURL)
				row.ImageURL = &ref
			}
			if _, err := s.stepRepo.Create(dbc, []*types.ExerciseStep{row}); err != nil {
				return fmt.Errorf("create step %d: %w", st.StepNumber, err)
			}
			rows := make([]*types.StepAction, 0, len(st.Actions))
			for i, a := range st.Actions {
				rows = append(rows, fromOverlayAction(row.ID, i, a))
			}
			if _, err := s.actionRepo.Create(dbc, rows); err != nil {
				return fmt.Errorf("create actions for step %d: %w", st.StepNumber, err)
			}
		}
		ex.Session = session
		out = ex
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Exercise imported", "exercise_id", out.ID, "session_number", in.SessionNumber, "steps", len(in.Steps))
	return out, nil
}

func toOverlayStep(st *types.ExerciseStep, actions []*types.StepAction) overlay.Step {
	out := overlay.Step{StepNumber: st.StepNumber, Actions: make([]overlay.Action, 0, len(actions))}
	if st.ImageURL != nil {
		out.ImageURL = *st.ImageURL
	}
	for _, a := range actions {
		out.Actions = append(out.Actions, overlay.Action{
			ActionType:       overlay.ActionType(a.ActionType),
			PositionX:        a.PositionX,
			PositionY:        a.PositionY,
			Width:            a.Width,
			Height:           a.Height,
			Label:            a.Label,
			Placeholder:      a.Placeholder,
			LabelStyle:       overlay.LabelStyle(a.LabelStyle),
			CommentText:      deref(a.CommentText),
			CommentBgColor:   deref(a.CommentBgColor),
			CommentTextColor: deref(a.CommentTextColor),
			CommentFontSize:  a.CommentFontSize,
		})
	}
	return out
}

func fromOverlayAction(stepID uuid.UUID, order int, a overlay.Action) *types.StepAction {
	return &types.StepAction{
		StepID:           stepID,
		SortOrder:        order,
		ActionType:       string(a.ActionType),
		PositionX:        a.PositionX,
		PositionY:        a.PositionY,
		Width:            a.Width,
		Height:           a.Height,
		Label:            a.Label,
		Placeholder:      a.Placeholder,
		LabelStyle:       string(a.LabelStyle),
		CommentText:      nonEmpty(a.CommentText),
		CommentBgColor:   nonEmpty(a.CommentBgColor),
		CommentTextColor: nonEmpty(a.CommentTextColor),
		CommentFontSize:  a.CommentFontSize,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
