package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/promptsheet-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptsheet-backend/internal/http/middleware"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	PromptHandler *httpH.PromptHandler
	SheetHandler  *httpH.SheetHandler
	BatchHandler  *httpH.BatchHandler
	ModelHandler  *httpH.ModelHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Catalog (public)
		if cfg.ModelHandler != nil {
			api.GET("/models", cfg.ModelHandler.ListModels)
			api.GET("/config/missing-keys", cfg.ModelHandler.MissingKeys)
		}

		// Sheets (public)
		if cfg.SheetHandler != nil {
			api.POST("/sheets/validate", cfg.SheetHandler.Validate)
			api.GET("/sheets/template", cfg.SheetHandler.Template)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Saved prompts
		if cfg.PromptHandler != nil {
			protected.POST("/prompts", cfg.PromptHandler.SavePrompt)
			protected.GET("/prompts", cfg.PromptHandler.ListPrompts)
			protected.DELETE("/prompts/:id", cfg.PromptHandler.DeletePrompt)
		}

		// Batch
		if cfg.BatchHandler != nil {
			protected.POST("/batch/stream", cfg.BatchHandler.Stream)
			protected.POST("/batch/sheet", cfg.BatchHandler.StreamSheet)
			protected.POST("/batch/export", cfg.BatchHandler.Export)
			protected.GET("/batch/runs", cfg.BatchHandler.ListRuns)
		}
	}

	return r
}
