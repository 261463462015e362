package app

import (
	"fmt"

	"github.com/yungbote/promptsheet-backend/internal/data/repos"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type Repos struct {
	Prompt repos.PromptRepo
	// BatchRun is nil without a SQL database.
	BatchRun repos.BatchRunRepo
}

func wireRepos(log *logger.Logger, cfg Config, clients Clients) (Repos, error) {
	log.Info("Wiring repos...")
	var out Repos
	switch cfg.PromptStore {
	case PromptStoreRedis:
		if clients.Redis == nil {
			return out, fmt.Errorf("redis prompt store requires a redis client")
		}
		out.Prompt = repos.NewRedisPromptRepo(clients.Redis, log)
	case PromptStoreSQL:
		gdb := clients.GormDB()
		if gdb == nil {
			return out, fmt.Errorf("sql prompt store requires DB_DRIVER")
		}
		out.Prompt = repos.NewGormPromptRepo(gdb, log)
	default:
		return out, fmt.Errorf("unknown prompt store %q", cfg.PromptStore)
	}
	if gdb := clients.GormDB(); gdb != nil {
		out.BatchRun = repos.NewBatchRunRepo(gdb, log)
	}
	return out, nil
}
