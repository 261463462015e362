package app

import (
	"github.com/yungbote/promptsheet-backend/internal/http"
	httpH "github.com/yungbote/promptsheet-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptsheet-backend/internal/http/middleware"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Prompt *httpH.PromptHandler
	Sheet  *httpH.SheetHandler
	Batch  *httpH.BatchHandler
	Model  *httpH.ModelHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Prompt: httpH.NewPromptHandler(services.Prompt),
		Sheet:  httpH.NewSheetHandler(services.Sheet),
		Batch:  httpH.NewBatchHandler(log, services.Batch),
		Model:  httpH.NewModelHandler(services.Router, services.Catalog),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey, cfg.AnonymousUser),
	}
}

func wireServer(log *logger.Logger, cfg Config, serviceName string, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(cfg.HTTPAddr, http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		PromptHandler:  handlers.Prompt,
		SheetHandler:   handlers.Sheet,
		BatchHandler:   handlers.Batch,
		ModelHandler:   handlers.Model,
	})
}
