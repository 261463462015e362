package prompts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/data/repos/testutil"
	"github.com/yungbote/promptsheet-backend/internal/domain"
)

func exercisePromptRepo(t *testing.T, repo PromptRepo) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Prompt{ID: "p1", Title: "Greeting", Body: "Hi {name}", Args: []string{"name"}, CreatedAt: base}
	second := &domain.Prompt{ID: "p2", Title: "Bye", Body: "Bye {name} from {brand}", Args: []string{"name", "brand"}, CreatedAt: base.Add(time.Minute)}
	other := &domain.Prompt{ID: "p3", Title: "Other", Body: "x", Args: []string{}, CreatedAt: base}

	for _, p := range []*domain.Prompt{second, first} {
		if err := repo.Save(ctx, "u1", p); err != nil {
			t.Fatalf("Save %s: %v", p.ID, err)
		}
	}
	if err := repo.Save(ctx, "u2", other); err != nil {
		t.Fatalf("Save other: %v", err)
	}

	got, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("List order: %+v", got)
	}
	if got[1].Body != "Bye {name} from {brand}" || len(got[1].Args) != 2 || got[1].Args[1] != "brand" {
		t.Fatalf("List content: %+v", got[1])
	}

	if err := repo.Delete(ctx, "u2", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete foreign prompt: %v", err)
	}
	if err := repo.Delete(ctx, "u1", "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("List after delete: %+v", got)
	}

	empty, err := repo.List(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List empty: %v %v", empty, err)
	}
}

func TestGormPromptRepo(t *testing.T) {
	db := testutil.DB(t)
	exercisePromptRepo(t, NewGormPromptRepo(db, testutil.Logger(t)))
}

func TestRedisPromptRepo(t *testing.T) {
	rdb := testutil.Redis(t)
	exercisePromptRepo(t, NewRedisPromptRepo(rdb, testutil.Logger(t)))
}
