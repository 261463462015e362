package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/promptsheet-backend/internal/clients/redis"
	"github.com/yungbote/promptsheet-backend/internal/data/db"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type Clients struct {
	DB    *db.Service
	Redis *goredis.Client
}

// GormDB is nil when no SQL database is configured.
func (c Clients) GormDB() *gorm.DB {
	if c.DB == nil {
		return nil
	}
	return c.DB.DB()
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.DBDriver != "" {
		svc, err := db.NewService(db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN}, log)
		if err != nil {
			return out, fmt.Errorf("init database: %w", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			_ = svc.Close()
			return out, fmt.Errorf("database automigrate: %w", err)
		}
		out.DB = svc
	}

	if cfg.PromptStore == PromptStoreRedis {
		rdb, err := redisclient.NewClient(log, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}
