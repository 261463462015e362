package batchruns

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/promptsheet-backend/internal/domain"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type BatchRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *domain.BatchRun) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*domain.BatchRun, error)
}

type batchRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRunRepo(db *gorm.DB, baseLog *logger.Logger) BatchRunRepo {
	return &batchRunRepo{db: db, log: baseLog.With("repo", "BatchRunRepo")}
}

func (r *batchRunRepo) Create(ctx context.Context, tx *gorm.DB, run *domain.BatchRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(run).Error
}

// ListByUser returns the most recent runs first.
func (r *batchRunRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*domain.BatchRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	results := []*domain.BatchRun{}
	if userID == "" {
		return results, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("finished_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
