package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/promptsheet-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Prompt{},
		&domain.BatchRun{},
	); err != nil {
		return err
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prompt_user_created_at
		ON prompt (user_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_prompt_user_created_at: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_batch_run_user_finished_at
		ON batch_run (user_id, finished_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_batch_run_user_finished_at: %w", err)
	}
	return nil
}
