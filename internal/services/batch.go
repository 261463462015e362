package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/promptsheet-backend/internal/batch"
	"github.com/yungbote/promptsheet-backend/internal/data/repos"
	"github.com/yungbote/promptsheet-backend/internal/domain"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine"
	"github.com/yungbote/promptsheet-backend/internal/inference/router"
	"github.com/yungbote/promptsheet-backend/internal/platform/apierr"
	"github.com/yungbote/promptsheet-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
	"github.com/yungbote/promptsheet-backend/internal/validation"
)

// StreamRequest either carries a template with one variables record per
// item, or prompts that were filled by the caller.
type StreamRequest struct {
	Prompt    string              `json:"prompt"`
	Variables []map[string]string `json:"variables"`
	Prompts   []batch.Prompt      `json:"prompts"`
	Provider  string              `json:"provider"`
	Model     string              `json:"model"`
}

type SheetStreamRequest struct {
	Sheets       sheets.SheetSet `json:"sheets"`
	TemplateName string          `json:"template_name"`
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
}

type ExportRequest struct {
	Prompt   string             `json:"prompt"`
	Contents []sheets.ResultRow `json:"contents"`
}

// BatchStream is a resolved batch ready to be ranged over. Each range
// dispatches every generation again.
type BatchStream struct {
	Provider string
	Model    string
	Count    int
	Items    iter.Seq[batch.Item]
}

type BatchService interface {
	Stream(ctx context.Context, req StreamRequest) (*BatchStream, error)
	StreamSheet(ctx context.Context, req SheetStreamRequest) (*BatchStream, error)
	Export(ctx context.Context, w io.Writer, req ExportRequest) error
	ListRuns(ctx context.Context, limit int) ([]*domain.BatchRun, error)
}

type batchService struct {
	log    *logger.Logger
	router *router.Router
	runs   repos.BatchRunRepo
	cfg    batch.Config
	now    func() time.Time
}

// NewBatchService wires generation through rt. runs may be nil, in which
// case batch history is not recorded.
func NewBatchService(log *logger.Logger, rt *router.Router, runs repos.BatchRunRepo, cfg batch.Config) BatchService {
	return &batchService{
		log:    log.With("service", "BatchService"),
		router: rt,
		runs:   runs,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *batchService) Stream(ctx context.Context, req StreamRequest) (*BatchStream, error) {
	template := req.Prompt
	prompts := req.Prompts
	if len(prompts) == 0 {
		if strings.TrimSpace(template) == "" {
			return nil, apierr.BadRequest("invalid_batch", fmt.Errorf("prompt is required"))
		}
		prompts = batch.Expand(template, req.Variables)
	}

	route, err := s.router.Resolve(req.Provider, req.Model)
	if err != nil {
		return nil, apierr.BadRequest("invalid_model", err)
	}
	temperature := s.router.Temperature()
	gen := batch.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return route.Engine.GenerateText(ctx, route.Model, engine.UserPrompt(prompt), engine.GenerateOptions{Temperature: temperature})
	})

	exp := batch.NewExpander(gen, s.log, s.cfg)
	s.log.Info("Starting batch", "provider", route.Provider, "model", route.Model, "items", len(prompts))

	items := exp.StreamPrompts(ctx, prompts)
	if uid := ctxutil.GetUserID(ctx); s.runs != nil && uid != "" {
		items = s.recorded(ctx, uid, template, route, len(prompts), items)
	}
	return &BatchStream{
		Provider: route.Provider,
		Model:    route.Model,
		Count:    len(prompts),
		Items:    items,
	}, nil
}

// StreamSheet runs the prompt_template of the prompt row named
// req.TemplateName against every row of the argument sheet of the same name.
func (s *batchService) StreamSheet(ctx context.Context, req SheetStreamRequest) (*BatchStream, error) {
	name := strings.TrimSpace(req.TemplateName)
	if name == "" {
		return nil, apierr.BadRequest("invalid_batch", fmt.Errorf("template_name is required"))
	}
	if res := validation.ValidateSheets(req.Sheets); !res.Status {
		return nil, apierr.BadRequest("invalid_sheets", fmt.Errorf("%s", strings.Join(res.Message, "; ")))
	}
	template, ok := findTemplate(req.Sheets, name)
	if !ok {
		return nil, apierr.NotFound("template_not_found", fmt.Errorf("no prompt template named %q", name))
	}
	if !req.Sheets.Has(name) {
		return nil, apierr.BadRequest("argument_sheet_missing", fmt.Errorf("sheet %q not found", name))
	}
	return s.Stream(ctx, StreamRequest{
		Prompt:    template,
		Variables: req.Sheets.Args(name),
		Provider:  req.Provider,
		Model:     req.Model,
	})
}

func findTemplate(set sheets.SheetSet, name string) (string, bool) {
	sh := set.Get(validation.SheetPrompt)
	if sh == nil {
		return "", false
	}
	for _, row := range sh.Rows {
		if tn, _ := row.Text("template_name"); tn != name {
			continue
		}
		if tpl, ok := row.Text("prompt_template"); ok && tpl != "" {
			return tpl, true
		}
	}
	return "", false
}

func (s *batchService) recorded(ctx context.Context, uid, template string, route router.Route, n int, seq iter.Seq[batch.Item]) iter.Seq[batch.Item] {
	return func(yield func(batch.Item) bool) {
		started := s.now().UTC()
		items := make([]batch.Item, 0, n)
		failures := 0
		stopped := false
		for it := range seq {
			items = append(items, it)
			if it.Failed() {
				failures++
			}
			if !yield(it) {
				stopped = true
				break
			}
		}

		raw, err := json.Marshal(items)
		if err != nil {
			s.log.Warn("Could not encode batch items", "error", err)
			raw = []byte("[]")
		}
		run := &domain.BatchRun{
			ID:           uuid.New(),
			UserID:       uid,
			Template:     template,
			Provider:     route.Provider,
			Model:        route.Model,
			ItemCount:    len(items),
			FailureCount: failures,
			Completed:    !stopped && len(items) == n,
			Items:        datatypes.JSON(raw),
			StartedAt:    started,
			FinishedAt:   s.now().UTC(),
		}
		if err := s.runs.Create(context.WithoutCancel(ctx), nil, run); err != nil {
			s.log.Warn("Could not record batch run", "error", err, "user_id", uid)
		}
	}
}

func (s *batchService) Export(ctx context.Context, w io.Writer, req ExportRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return apierr.BadRequest("invalid_export", fmt.Errorf("prompt is required"))
	}
	if err := sheets.WriteResults(w, req.Prompt, req.Contents); err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	return nil
}

func (s *batchService) ListRuns(ctx context.Context, limit int) ([]*domain.BatchRun, error) {
	uid, err := requestUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.runs == nil {
		return []*domain.BatchRun{}, nil
	}
	out, err := s.runs.ListByUser(ctx, nil, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	return out, nil
}
