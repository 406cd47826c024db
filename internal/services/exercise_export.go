package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/motoruniversal-backend/internal/data/repos"
	types "github.com/yungbote/motoruniversal-backend/internal/domain"
	"github.com/yungbote/motoruniversal-backend/internal/export"
	"github.com/yungbote/motoruniversal-backend/internal/overlay"
	"github.com/yungbote/motoruniversal-backend/internal/platform/dbctx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
	"github.com/yungbote/motoruniversal-backend/internal/platform/lock"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/motoruniversal-backend/internal/services")

type ArchivePackager interface {
	Package(ctx context.Context, meta export.SessionMeta, steps []overlay.Step) (*export.Result, error)
}

// ExportOutcome is a finished export plus where its audit row and stored
// copy live. StorageKey and URL are empty when uploads are disabled or failed.
type ExportOutcome struct {
	*export.Result
	RunID      uuid.UUID
	StorageKey string
	URL        string
}

type ExerciseExportService interface {
	Export(ctx context.Context, exerciseID uuid.UUID) (*ExportOutcome, error)
	PreviewStep(ctx context.Context, exerciseID uuid.UUID, stepNumber int) ([]byte, error)
	ListRuns(ctx context.Context, exerciseID uuid.UUID, limit int) ([]*types.ExportRun, error)
}

type ExportServiceOptions struct {
	LockTTL        time.Duration
	UploadArchives bool
}

type exerciseExportService struct {
	log        *logger.Logger
	content    ExerciseContentService
	packager   ArchivePackager
	loader     imageload.Loader
	composer   export.Composer
	locker     lock.Locker
	runRepo    repos.ExportRunRepo
	bucket     gcp.BucketService
	opts       ExportServiceOptions
	pngEncoder png.Encoder
	now        func() time.Time
}

func NewExerciseExportService(
	baseLog *logger.Logger,
	content ExerciseContentService,
	packager ArchivePackager,
	loader imageload.Loader,
	composer export.Composer,
	locker lock.Locker,
	runRepo repos.ExportRunRepo,
	bucket gcp.BucketService,
	opts ExportServiceOptions,
) ExerciseExportService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &exerciseExportService{
		log:        baseLog.With("service", "ExerciseExportService"),
		content:    content,
		packager:   packager,
		loader:     loader,
		composer:   composer,
		locker:     locker,
		runRepo:    runRepo,
		bucket:     bucket,
		opts:       opts,
		pngEncoder: png.Encoder{CompressionLevel: png.DefaultCompression},
		now:        time.Now,
	}
}

func exportLockKey(exerciseID uuid.UUID) string {
	return "export:exercise:" + exerciseID.String()
}

func (s *exerciseExportService) Export(ctx context.Context, exerciseID uuid.UUID) (out *ExportOutcome, err error) {
	ctx, span := tracer.Start(ctx, "export.exercise")
	span.SetAttributes(attribute.String("exercise_id", exerciseID.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, ExportErrorCode(err))
		}
		span.End()
	}()

	lease, err := s.locker.TryAcquire(ctx, exportLockKey(exerciseID), s.opts.LockTTL)
	if errors.Is(err, lock.ErrBusy) {
		return nil, ErrExportInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire export lock: %w", err)
	}
	defer func() {
		relCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if relErr := lease.Release(relCtx); relErr != nil {
			s.log.Warn("export lock release failed", "exercise_id", exerciseID, "error", relErr)
		}
	}()

	bundle, err := s.content.LoadExerciseSteps(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	run := &types.ExportRun{
		ExerciseID:  exerciseID,
		ArchiveName: export.ArchiveName(bundle.Session.SessionNumber, bundle.Session.SessionTitle),
		Status:      types.ExportRunStatusRunning,
		StartedAt:   s.now().UTC(),
	}
	if _, err := s.runRepo.Create(dbc, []*types.ExportRun{run}); err != nil {
		return nil, fmt.Errorf("record export run: %w", err)
	}

	res, err := s.packager.Package(ctx, bundle.Session, bundle.Steps)
	if err != nil {
		s.finishRun(run.ID, map[string]interface{}{
			"status":      types.ExportRunStatusFailed,
			"error_code":  ExportErrorCode(err),
			"message":     export.FailureReport(err).Message,
			"finished_at": s.now().UTC(),
		})
		s.log.Warn("export failed", "exercise_id", exerciseID, "code", ExportErrorCode(err), "error", err)
		return nil, err
	}

	sum := sha256.Sum256(res.Archive)
	digest := hex.EncodeToString(sum[:])
	out = &ExportOutcome{Result: res, RunID: run.ID}
	if s.opts.UploadArchives && s.bucket != nil {
		key := fmt.Sprintf("exports/%s/%s/%s", exerciseID, digest[:12], res.ArchiveName)
		if upErr := s.bucket.UploadFile(dbc, gcp.BucketCategoryExport, key, bytes.NewReader(res.Archive)); upErr != nil {
			s.log.Warn("export archive upload failed", "exercise_id", exerciseID, "key", key, "error", upErr)
		} else {
			out.StorageKey = key
			out.URL = s.bucket.GetPublicURL(gcp.BucketCategoryExport, key)
		}
	}

	skipped, _ := json.Marshal(res.SkippedSteps())
	s.finishRun(run.ID, map[string]interface{}{
		"status":      types.ExportRunStatusSucceeded,
		"image_count": len(res.Included),
		"skipped":     datatypes.JSON(skipped),
		"message":     res.Report().Message,
		"sha256":      digest,
		"size_bytes":  int64(len(res.Archive)),
		"storage_key": out.StorageKey,
		"url":         out.URL,
		"finished_at": s.now().UTC(),
	})
	span.SetAttributes(attribute.Int("export.images_included", len(res.Included)))
	return out, nil
}

// finishRun must not fail an export whose outcome is already decided.
func (s *exerciseExportService) finishRun(id uuid.UUID, updates map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runRepo.UpdateFields(dbctx.Context{Ctx: ctx}, id, updates); err != nil {
		s.log.Error("export run update failed", "run_id", id, "error", err)
	}
}

func (s *exerciseExportService) PreviewStep(ctx context.Context, exerciseID uuid.UUID, stepNumber int) ([]byte, error) {
	bundle, err := s.content.LoadExerciseSteps(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	var step *overlay.Step
	for i := range bundle.Steps {
		if bundle.Steps[i].StepNumber == stepNumber {
			step = &bundle.Steps[i]
			break
		}
	}
	if step == nil {
		return nil, fmt.Errorf("step %d: %w", stepNumber, ErrNotFound)
	}
	if !step.HasImage() {
		return nil, &export.NoExportableContentError{}
	}

	bg, err := s.loader.Load(ctx, step.ImageURL)
	if err != nil {
		return nil, &export.ImageLoadError{StepNumber: step.StepNumber, URL: step.ImageURL, Err: err}
	}
	var buf bytes.Buffer
	if err := s.pngEncoder.Encode(&buf, s.composer.Compose(bg, step.Actions)); err != nil {
		return nil, &export.ArchiveEncodingError{Entry: export.EntryName(step.StepNumber), Err: err}
	}
	return buf.Bytes(), nil
}

func (s *exerciseExportService) ListRuns(ctx context.Context, exerciseID uuid.UUID, limit int) ([]*types.ExportRun, error) {
	return s.runRepo.ListByExerciseID(dbctx.Context{Ctx: ctx}, exerciseID, limit)
}
