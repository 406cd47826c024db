package app

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/yungbote/motoruniversal-backend/internal/data/repos"
	"github.com/yungbote/motoruniversal-backend/internal/export"
	httpH "github.com/yungbote/motoruniversal-backend/internal/http/handlers"
	"github.com/yungbote/motoruniversal-backend/internal/overlay"
	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
	"github.com/yungbote/motoruniversal-backend/internal/platform/imageload"
	"github.com/yungbote/motoruniversal-backend/internal/platform/lock"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
	"github.com/yungbote/motoruniversal-backend/internal/services"
)

type Repos struct {
	Session   repos.StudySessionRepo
	Exercise  repos.ExerciseRepo
	Step      repos.ExerciseStepRepo
	Action    repos.StepActionRepo
	ExportRun repos.ExportRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Session:   repos.NewStudySessionRepo(db, log),
		Exercise:  repos.NewExerciseRepo(db, log),
		Step:      repos.NewExerciseStepRepo(db, log),
		Action:    repos.NewStepActionRepo(db, log),
		ExportRun: repos.NewExportRunRepo(db, log),
	}
}

// Clients are the process-wide collaborators shared by services.
type Clients struct {
	Bucket     gcp.BucketService
	Locker     lock.Locker
	Loader     imageload.Loader
	Compositor *overlay.Compositor
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		return Clients{}, err
	}
	locker, err := resolveLocker(log, cfg)
	if err != nil {
		return Clients{}, err
	}
	compositor, err := overlay.NewCompositor(log)
	if err != nil {
		_ = locker.Close()
		return Clients{}, err
	}
	loader := imageload.NewRouter(log, imageload.Options{
		HTTPClient:   &http.Client{Timeout: cfg.ImageFetchTimeout},
		Buckets:      bucket,
		AllowFiles:   cfg.AllowFileImages,
		FileRoot:     cfg.FileImageRoot,
		AllowedHosts: cfg.imageHosts(),
		MaxBytes:     cfg.ImageMaxBytes,
		MaxPixels:    cfg.ImageMaxPixels,
	})
	return Clients{Bucket: bucket, Locker: locker, Loader: loader, Compositor: compositor}, nil
}

type Services struct {
	Content services.ExerciseContentService
	Export  services.ExerciseExportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	content := services.NewExerciseContentService(db, log, r.Session, r.Exercise, r.Step, r.Action)
	packager := export.NewPackager(log, c.Loader, c.Compositor, export.Options{
		FetchConcurrency: cfg.ExportFetchConcurrency,
	})
	exportSvc := services.NewExerciseExportService(
		log,
		content,
		packager,
		c.Loader,
		c.Compositor,
		c.Locker,
		r.ExportRun,
		c.Bucket,
		services.ExportServiceOptions{
			LockTTL:        cfg.ExportLockTTL,
			UploadArchives: cfg.ExportUploadArchives,
		},
	)
	return Services{Content: content, Export: exportSvc}
}

type Handlers struct {
	Exercise *httpH.ExerciseHandler
	Export   *httpH.ExportHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Exercise: httpH.NewExerciseHandler(s.Content, s.Export),
		Export:   httpH.NewExportHandler(s.Export),
		Health:   httpH.NewHealthHandler(db),
	}
}
