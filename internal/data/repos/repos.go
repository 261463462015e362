package repos

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/promptsheet-backend/internal/data/repos/batchruns"
	"github.com/yungbote/promptsheet-backend/internal/data/repos/prompts"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type PromptRepo = prompts.PromptRepo
type BatchRunRepo = batchruns.BatchRunRepo

var ErrPromptNotFound = prompts.ErrNotFound

func NewGormPromptRepo(db *gorm.DB, log *logger.Logger) PromptRepo {
	return prompts.NewGormPromptRepo(db, log)
}

func NewRedisPromptRepo(rdb goredis.UniversalClient, log *logger.Logger) PromptRepo {
	return prompts.NewRedisPromptRepo(rdb, log)
}

func NewBatchRunRepo(db *gorm.DB, log *logger.Logger) BatchRunRepo {
	return batchruns.NewBatchRunRepo(db, log)
}
