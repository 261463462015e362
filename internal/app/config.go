package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/batch"
	"github.com/yungbote/promptsheet-backend/internal/platform/envutil"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

const (
	PromptStoreRedis = "redis"
	PromptStoreSQL   = "sql"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	JWTSecretKey  string
	AnonymousUser string

	// PromptStore is "redis" or "sql".
	PromptStore   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DBDriver is "postgres" or "sqlite"; empty disables SQL storage.
	DBDriver string
	DBDSN    string

	Batch batch.Config

	ModelsPath string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr:        envutil.String("HTTP_ADDR", ":8080"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		CORSOrigins:     envutil.List("CORS_ORIGINS"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AnonymousUser:   envutil.String("ANONYMOUS_USER_ID", "local"),
		PromptStore:     strings.ToLower(envutil.String("PROMPT_STORE", PromptStoreRedis)),
		RedisAddr:       envutil.String("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		RedisDB:         envutil.Int("REDIS_DB", 0),
		DBDriver:        strings.ToLower(envutil.String("DB_DRIVER", "")),
		DBDSN:           envutil.String("DB_DSN", ""),
		Batch: batch.Config{
			Pacing:         envutil.Duration("BATCH_PACING", batch.DefaultPacing),
			MaxConcurrency: envutil.Int("BATCH_MAX_CONCURRENCY", 0),
		},
		ModelsPath: envutil.String("PROMPTSHEET_MODELS_PATH", ""),
	}
	if cfg.Batch.Pacing == 0 {
		// An explicit zero turns pacing off.
		cfg.Batch.Pacing = -1
	}
	log.Info("Loaded config",
		"http_addr", cfg.HTTPAddr,
		"prompt_store", cfg.PromptStore,
		"db_driver", cfg.DBDriver,
		"batch_pacing", cfg.Batch.Pacing.String(),
		"batch_max_concurrency", cfg.Batch.MaxConcurrency,
		"auth", cfg.JWTSecretKey != "",
	)
	return cfg
}

func (c Config) Validate() error {
	switch c.PromptStore {
	case PromptStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("PROMPT_STORE=redis requires REDIS_ADDR")
		}
	case PromptStoreSQL:
		if c.DBDriver == "" {
			return fmt.Errorf("PROMPT_STORE=sql requires DB_DRIVER")
		}
	default:
		return fmt.Errorf("unknown PROMPT_STORE %q", c.PromptStore)
	}
	if c.JWTSecretKey == "" && c.AnonymousUser == "" {
		return fmt.Errorf("ANONYMOUS_USER_ID must be set when JWT_SECRET_KEY is empty")
	}
	return nil
}
