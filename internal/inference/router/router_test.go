package router

import (
	"testing"

	"github.com/yungbote/promptsheet-backend/internal/inference/config"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/anthropic"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/mock"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/oaihttp"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultProvider: "openai",
		Providers: []config.ProviderConfig{
			{Name: "openai", Engine: config.EngineConfig{Type: config.EngineOAIHTTP, BaseURL: "http://oai"}, Models: []string{"gpt-3.5-turbo"}, DefaultModel: "gpt-3.5-turbo"},
			{Name: "anthropic", Engine: config.EngineConfig{Type: config.EngineAnthropic}, Models: []string{"claude"}, DefaultModel: "claude"},
			{Name: "mock", Engine: config.EngineConfig{Type: config.EngineMock}},
		},
	}
}

func TestResolve(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	route, err := r.Resolve("anthropic", "")
	if err != nil || route.Provider != "anthropic" || route.Model != "claude" {
		t.Fatalf("anthropic route=%+v err=%v", route, err)
	}
	if _, ok := route.Engine.(*anthropic.Engine); !ok {
		t.Fatalf("engine=%T", route.Engine)
	}

	route, err = r.Resolve("cohere", "command-r")
	if err != nil || route.Provider != "openai" || route.Model != "command-r" {
		t.Fatalf("fallback route=%+v err=%v", route, err)
	}
	if _, ok := route.Engine.(*oaihttp.Engine); !ok {
		t.Fatalf("engine=%T", route.Engine)
	}

	route, err = r.Resolve(" OpenAI ", "gpt-4o")
	if err != nil || route.Model != "gpt-4o" {
		t.Fatalf("passthrough route=%+v err=%v", route, err)
	}

	if _, err := r.Resolve("mock", ""); err == nil {
		t.Fatalf("expected error for provider without default model")
	}
	route, err = r.Resolve("mock", "anything")
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	if _, ok := route.Engine.(*mock.Engine); !ok {
		t.Fatalf("engine=%T", route.Engine)
	}
}

func TestListModelsDefaultFirst(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := r.ListModels()
	if len(got) != 3 || got[0].Provider != "openai" || got[1].Provider != "anthropic" || got[2].Provider != "mock" {
		t.Fatalf("models=%+v", got)
	}
	if got[2].Models == nil {
		t.Fatalf("models should serialize as an empty list")
	}
}

func TestNewRejectsUnknownDefault(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultProvider = "nope"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
