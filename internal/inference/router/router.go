package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/promptsheet-backend/internal/inference/config"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/anthropic"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/mock"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine/oaihttp"
)

// Route is a resolved (provider, model) pair and the engine serving it.
type Route struct {
	Provider string
	Model    string
	Engine   engine.Engine
}

type provider struct {
	name         string
	engine       engine.Engine
	models       []string
	defaultModel string
}

type Router struct {
	providers       map[string]provider
	defaultProvider string
	temperature     float64
}

func New(cfg *config.Config) (*Router, error) {
	r := &Router{
		providers:       map[string]provider{},
		defaultProvider: cfg.DefaultProvider,
		temperature:     cfg.Temperature,
	}
	for _, p := range cfg.Providers {
		eng, err := newEngine(p.Engine)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", p.Name, err)
		}
		r.providers[p.Name] = provider{
			name:         p.Name,
			engine:       eng,
			models:       append([]string(nil), p.Models...),
			defaultModel: p.DefaultModel,
		}
	}
	if _, ok := r.providers[r.defaultProvider]; !ok {
		return nil, fmt.Errorf("default provider %q is not configured", r.defaultProvider)
	}
	return r, nil
}

func newEngine(cfg config.EngineConfig) (engine.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case config.EngineMock:
		return mock.New(cfg.Latency.Duration), nil
	case config.EngineOAIHTTP, "openai_http":
		return oaihttp.New(cfg)
	case config.EngineAnthropic:
		return anthropic.New(cfg)
	default:
		return nil, fmt.Errorf("unsupported engine type %q", cfg.Type)
	}
}

// NewStatic builds a router over prebuilt engines keyed by provider name.
// Each provider's default model is its first listed model.
func NewStatic(defaultProvider string, engines map[string]engine.Engine, models map[string][]string) (*Router, error) {
	r := &Router{providers: map[string]provider{}, defaultProvider: defaultProvider}
	for name, eng := range engines {
		p := provider{name: name, engine: eng, models: models[name]}
		if len(p.models) > 0 {
			p.defaultModel = p.models[0]
		}
		r.providers[name] = p
	}
	if _, ok := r.providers[defaultProvider]; !ok {
		return nil, fmt.Errorf("default provider %q is not configured", defaultProvider)
	}
	return r, nil
}

// Resolve picks the engine for (providerName, model). An empty or unknown
// provider falls back to the default provider; an empty model falls back to
// the provider's default model. Models outside the catalog are passed through
// to the provider unchanged.
func (r *Router) Resolve(providerName, model string) (Route, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(providerName))]
	if !ok {
		p = r.providers[r.defaultProvider]
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = p.defaultModel
	}
	if model == "" {
		return Route{}, fmt.Errorf("provider %q has no default model", p.name)
	}
	return Route{Provider: p.name, Model: model, Engine: p.engine}, nil
}

func (r *Router) Temperature() float64 { return r.temperature }

type ModelInfo struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
	Default  string   `json:"default_model"`
}

// ListModels returns the catalog sorted by provider, default provider first.
func (r *Router) ListModels() []ModelInfo {
	out := make([]ModelInfo, 0, len(r.providers))
	for _, p := range r.providers {
		models := p.models
		if models == nil {
			models = []string{}
		}
		out = append(out, ModelInfo{Provider: p.name, Models: models, Default: p.defaultModel})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Provider == r.defaultProvider) != (out[j].Provider == r.defaultProvider) {
			return out[i].Provider == r.defaultProvider
		}
		return out[i].Provider < out[j].Provider
	})
	return out
}

func (r *Router) DefaultProvider() string { return r.defaultProvider }
