package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/promptsheet-backend/internal/batch"
	"github.com/yungbote/promptsheet-backend/internal/data/repos"
	"github.com/yungbote/promptsheet-backend/internal/data/repos/testutil"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/mock"
	"github.com/yungbote/promptsheet-backend/internal/inference/router"
	"github.com/yungbote/promptsheet-backend/internal/platform/apierr"
	"github.com/yungbote/promptsheet-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

func newMockRouter(t *testing.T) *router.Router {
	t.Helper()
	rt, err := router.NewStatic("mock", map[string]engine.Engine{"mock": mock.New(0)}, map[string][]string{"mock": {"mock-1"}})
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	return rt
}

func statusOf(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func TestPromptServiceLifecycle(t *testing.T) {
	log := testutil.Logger(t)
	svc := NewPromptService(log, repos.NewGormPromptRepo(testutil.DB(t), log))

	if _, err := svc.List(context.Background()); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %v", err)
	}

	ctx := ctxutil.WithUserID(context.Background(), "user-1")
	p, err := svc.Save(ctx, SavePromptInput{Title: "Greeting", Prompt: "Hi {name}, from {brand} and {name}"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if len(p.Args) != 2 || p.Args[0] != "name" || p.Args[1] != "brand" {
		t.Fatalf("args=%v", p.Args)
	}

	if _, err := svc.Save(ctx, SavePromptInput{Title: " ", Prompt: "x"}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty title, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("List=%v err=%v", list, err)
	}

	if err := svc.Delete(ctx, "missing"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestSheetServiceExampleRoundTrip(t *testing.T) {
	svc := NewSheetService(testutil.Logger(t))
	var buf bytes.Buffer
	if err := svc.WriteExample(context.Background(), &buf); err != nil {
		t.Fatalf("WriteExample: %v", err)
	}
	rep, err := svc.ValidateWorkbook(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ValidateWorkbook: %v", err)
	}
	if !rep.Validation.Status {
		t.Fatalf("example workbook should validate: %v", rep.Validation.Message)
	}
	if len(rep.Order) != len(sheets.ExampleOrder) || rep.Order[0] != "prompt" {
		t.Fatalf("order=%v", rep.Order)
	}

	if _, err := svc.ValidateWorkbook(context.Background(), bytes.NewReader([]byte("not a workbook"))); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage upload, got %v", err)
	}

	rep = svc.ValidateSet(context.Background(), nil)
	if rep.Validation.Status || len(rep.Validation.Message) != 3 {
		t.Fatalf("empty set: %+v", rep.Validation)
	}
}

func collect(seq func(func(batch.Item) bool)) []batch.Item {
	var out []batch.Item
	for it := range seq {
		out = append(out, it)
	}
	return out
}

func TestBatchServiceStreamRecordsRun(t *testing.T) {
	log := testutil.Logger(t)
	runs := repos.NewBatchRunRepo(testutil.DB(t), log)
	svc := NewBatchService(log, newMockRouter(t), runs, batch.Config{Pacing: -1})
	ctx := ctxutil.WithUserID(context.Background(), "user-1")

	bs, err := svc.Stream(ctx, StreamRequest{
		Prompt:    "Hello {name}",
		Variables: []map[string]string{{"name": "A"}, {"name": "B"}},
		Provider:  "unknown",
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if bs.Provider != "mock" || bs.Model != "mock-1" || bs.Count != 2 {
		t.Fatalf("stream=%+v", bs)
	}
	items := collect(bs.Items)
	if len(items) != 2 || items[0].Value != "mock: Hello A" || items[1].Value != "mock: Hello B" {
		t.Fatalf("items=%+v", items)
	}

	history, err := svc.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("runs=%d", len(history))
	}
	run := history[0]
	if !run.Completed || run.ItemCount != 2 || run.FailureCount != 0 || run.Template != "Hello {name}" {
		t.Fatalf("run=%+v", run)
	}
	var stored []batch.Item
	if err := json.Unmarshal(run.Items, &stored); err != nil || len(stored) != 2 {
		t.Fatalf("stored items=%s err=%v", string(run.Items), err)
	}
}

func TestBatchServiceStreamRequiresPrompt(t *testing.T) {
	svc := NewBatchService(testutil.Logger(t), newMockRouter(t), nil, batch.Config{Pacing: -1})
	if _, err := svc.Stream(context.Background(), StreamRequest{}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	bs, err := svc.Stream(context.Background(), StreamRequest{Prompts: []batch.Prompt{{Body: "x"}}})
	if err != nil {
		t.Fatalf("Stream prompts: %v", err)
	}
	if items := collect(bs.Items); len(items) != 1 || items[0].Value != "mock: x" {
		t.Fatalf("items=%+v", items)
	}
}

func TestBatchServiceStreamSheet(t *testing.T) {
	svc := NewBatchService(testutil.Logger(t), newMockRouter(t), nil, batch.Config{Pacing: -1})
	set := sheets.ExampleSet()

	bs, err := svc.StreamSheet(context.Background(), SheetStreamRequest{Sheets: set, TemplateName: "opening"})
	if err != nil {
		t.Fatalf("StreamSheet: %v", err)
	}
	items := collect(bs.Items)
	if len(items) != set.Get("opening").Len() {
		t.Fatalf("items=%d", len(items))
	}
	if items[0].Args["comb_id"] != "1" {
		t.Fatalf("args=%v", items[0].Args)
	}

	if _, err := svc.StreamSheet(context.Background(), SheetStreamRequest{Sheets: set, TemplateName: "nope"}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if _, err := svc.StreamSheet(context.Background(), SheetStreamRequest{Sheets: sheets.SheetSet{}, TemplateName: "opening"}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid sheets, got %v", err)
	}
}

func TestBatchServiceExport(t *testing.T) {
	svc := NewBatchService(testutil.Logger(t), newMockRouter(t), nil, batch.Config{Pacing: -1})
	var buf bytes.Buffer
	err := svc.Export(context.Background(), &buf, ExportRequest{
		Prompt:   "Hi {name}",
		Contents: []sheets.ResultRow{{Value: "hello", Args: map[string]string{"name": "A"}}},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("results")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[0][2] != "name" || rows[1][0] != "Hi A" || rows[1][1] != "hello" {
		t.Fatalf("rows=%v", rows)
	}
}
