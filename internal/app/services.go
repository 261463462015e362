package app

import (
	"fmt"

	"github.com/yungbote/promptsheet-backend/internal/inference/config"
	"github.com/yungbote/promptsheet-backend/internal/inference/router"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/services"
)

type Services struct {
	Catalog *config.Config
	Router  *router.Router

	Prompt services.PromptService
	Sheet  services.SheetService
	Batch  services.BatchService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	catalog, err := config.Load(cfg.ModelsPath)
	if err != nil {
		return Services{}, fmt.Errorf("load model catalog: %w", err)
	}
	if missing := catalog.MissingKeys(); len(missing) > 0 {
		log.Warn("Provider API keys not set", "missing", missing)
	}
	rt, err := router.New(catalog)
	if err != nil {
		return Services{}, fmt.Errorf("init inference router: %w", err)
	}
	return Services{
		Catalog: catalog,
		Router:  rt,
		Prompt:  services.NewPromptService(log, reposet.Prompt),
		Sheet:   services.NewSheetService(log),
		Batch:   services.NewBatchService(log, rt, reposet.BatchRun, cfg.Batch),
	}, nil
}
