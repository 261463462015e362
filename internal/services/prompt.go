package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/promptsheet-backend/internal/data/repos"
	"github.com/yungbote/promptsheet-backend/internal/domain"
	"github.com/yungbote/promptsheet-backend/internal/platform/apierr"
	"github.com/yungbote/promptsheet-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/prompttpl"
)

type SavePromptInput struct {
	PromptID string `json:"promptId"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
}

type PromptService interface {
	Save(ctx context.Context, in SavePromptInput) (*domain.Prompt, error)
	List(ctx context.Context) ([]*domain.Prompt, error)
	Delete(ctx context.Context, promptID string) error
}

type promptService struct {
	log  *logger.Logger
	repo repos.PromptRepo
	now  func() time.Time
}

func NewPromptService(log *logger.Logger, repo repos.PromptRepo) PromptService {
	return &promptService{
		log:  log.With("service", "PromptService"),
		repo: repo,
		now:  time.Now,
	}
}

func requestUser(ctx context.Context) (string, error) {
	uid := ctxutil.GetUserID(ctx)
	if uid == "" {
		return "", apierr.Unauthorized("unauthorized", fmt.Errorf("missing user"))
	}
	return uid, nil
}

// Save stores a prompt for the request user. The argument list is always
// derived from the prompt text; a missing id is generated.
func (s *promptService) Save(ctx context.Context, in SavePromptInput) (*domain.Prompt, error) {
	uid, err := requestUser(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("invalid_prompt", fmt.Errorf("title is required"))
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apierr.BadRequest("invalid_prompt", fmt.Errorf("prompt is required"))
	}
	id := strings.TrimSpace(in.PromptID)
	if id == "" {
		id = uuid.New().String()
	}
	p := &domain.Prompt{
		ID:        id,
		UserID:    uid,
		Title:     title,
		Body:      in.Prompt,
		Args:      prompttpl.Placeholders(in.Prompt),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, uid, p); err != nil {
		return nil, fmt.Errorf("save prompt: %w", err)
	}
	s.log.Debug("Saved prompt", "prompt_id", p.ID, "user_id", uid, "args", len(p.Args))
	return p, nil
}

func (s *promptService) List(ctx context.Context) ([]*domain.Prompt, error) {
	uid, err := requestUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return out, nil
}

func (s *promptService) Delete(ctx context.Context, promptID string) error {
	uid, err := requestUser(ctx)
	if err != nil {
		return err
	}
	promptID = strings.TrimSpace(promptID)
	if promptID == "" {
		return apierr.BadRequest("invalid_prompt_id", fmt.Errorf("prompt id is required"))
	}
	if err := s.repo.Delete(ctx, uid, promptID); err != nil {
		if errors.Is(err, repos.ErrPromptNotFound) {
			return apierr.NotFound("prompt_not_found", err)
		}
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}
