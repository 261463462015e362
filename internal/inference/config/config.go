package config

import "time"

type Duration struct {
	Duration time.Duration
}

const (
	EngineMock      = "mock"
	EngineOAIHTTP   = "oai_http"
	EngineAnthropic = "anthropic"
)

type EngineConfig struct {
	// Type is one of mock, oai_http (any OpenAI-compatible chat completions
	// server) or anthropic.
	Type string `json:"type" yaml:"type"`

	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Path overrides the generation endpoint path.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// APIKey wins over APIKeyEnv when both are set.
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`

	Timeout    Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries int      `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	MaxTokens  int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Latency only applies to the mock engine.
	Latency Duration `json:"latency,omitempty" yaml:"latency,omitempty"`
}

type ProviderConfig struct {
	Name         string       `json:"name" yaml:"name"`
	Engine       EngineConfig `json:"engine" yaml:"engine"`
	Models       []string     `json:"models" yaml:"models"`
	DefaultModel string       `json:"default_model,omitempty" yaml:"default_model,omitempty"`
}

type Config struct {
	// DefaultProvider serves requests naming an unknown or empty provider.
	DefaultProvider string           `json:"default_provider" yaml:"default_provider"`
	Temperature     float64          `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Providers       []ProviderConfig `json:"providers" yaml:"providers"`
}
