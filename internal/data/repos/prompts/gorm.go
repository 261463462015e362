package prompts

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/promptsheet-backend/internal/domain"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

type gormPromptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return &gormPromptRepo{db: db, log: baseLog.With("repo", "GormPromptRepo")}
}

// Save upserts by prompt id. Re-saving moves the prompt to the end of the
// user's list.
func (r *gormPromptRepo) Save(ctx context.Context, userID string, p *domain.Prompt) error {
	if p == nil {
		return nil
	}
	p.UserID = userID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "title", "prompt", "args", "created_at"}),
		}).
		Create(p).Error
}

func (r *gormPromptRepo) List(ctx context.Context, userID string) ([]*domain.Prompt, error) {
	results := []*domain.Prompt{}
	if userID == "" {
		return results, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *gormPromptRepo) Delete(ctx context.Context, userID, promptID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", promptID, userID).
		Delete(&domain.Prompt{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
