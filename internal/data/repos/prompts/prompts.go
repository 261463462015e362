package prompts

import (
	"context"
	"errors"

	"github.com/yungbote/promptsheet-backend/internal/domain"
)

var ErrNotFound = errors.New("prompt not found")

// PromptRepo stores saved prompts per user. List returns prompts oldest
// first.
type PromptRepo interface {
	Save(ctx context.Context, userID string, p *domain.Prompt) error
	List(ctx context.Context, userID string) ([]*domain.Prompt, error)
	Delete(ctx context.Context, userID, promptID string) error
}
