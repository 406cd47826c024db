package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/motoruniversal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/motoruniversal-backend/internal/http/middleware"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	ExerciseHandler *httpH.ExerciseHandler
	ExportHandler   *httpH.ExportHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "motoruniversal-export"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Exercise content
		if cfg.ExerciseHandler != nil {
			api.POST("/exercises/import", cfg.ExerciseHandler.Import)
			api.GET("/exercises/:id/steps", cfg.ExerciseHandler.GetSteps)
			api.GET("/exercises/:id/steps/:step/preview", cfg.ExerciseHandler.PreviewStep)
		}

		// Export
		if cfg.ExportHandler != nil {
			api.POST("/exercises/:id/export", cfg.ExportHandler.Export)
			api.GET("/exercises/:id/exports", cfg.ExportHandler.ListRuns)
		}
	}

	return r
}
