package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, line %d", node.Line)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		DefaultProvider: "openai",
		Providers: []ProviderConfig{
			{
				Name:         "openai",
				Engine:       EngineConfig{Type: EngineOAIHTTP, BaseURL: "https://api.openai.com", APIKeyEnv: "OPENAI_API_KEY"},
				Models:       []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini"},
				DefaultModel: "gpt-3.5-turbo",
			},
			{
				Name:         "anthropic",
				Engine:       EngineConfig{Type: EngineAnthropic, APIKeyEnv: "ANTHROPIC_API_KEY"},
				Models:       []string{"claude-3-5-sonnet-latest", "claude-3-5-haiku-latest"},
				DefaultModel: "claude-3-5-sonnet-latest",
			},
			{
				Name: "google",
				Engine: EngineConfig{
					Type:      EngineOAIHTTP,
					BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai",
					Path:      "/chat/completions",
					APIKeyEnv: "GOOGLE_GENERATIVE_AI_API_KEY",
				},
				Models:       []string{"gemini-1.5-pro", "gemini-1.5-flash"},
				DefaultModel: "gemini-1.5-flash",
			},
			{
				Name:         "mock",
				Engine:       EngineConfig{Type: EngineMock},
				Models:       []string{"mock"},
				DefaultModel: "mock",
			},
		},
	}
}

// Load reads the provider catalog from path, or PROMPTSHEET_MODELS_PATH when
// path is empty, falling back to the built-in catalog. Files ending in .json
// are decoded as JSON, anything else as YAML.
// PROMPTSHEET_DEFAULT_PROVIDER overrides the default provider.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("PROMPTSHEET_MODELS_PATH"))
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model catalog: %w", err)
		}
		var loaded Config
		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(b, &loaded)
		} else {
			err = yaml.Unmarshal(b, &loaded)
		}
		if err != nil {
			return nil, fmt.Errorf("decode model catalog %s: %w", path, err)
		}
		*cfg = loaded
	}

	if v := strings.TrimSpace(os.Getenv("PROMPTSHEET_DEFAULT_PROVIDER")); v != "" {
		cfg.DefaultProvider = v
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() error {
	if len(cfg.Providers) == 0 {
		return errors.New("model catalog must define at least one provider")
	}
	seen := map[string]bool{}
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		p.Name = strings.ToLower(strings.TrimSpace(p.Name))
		if p.Name == "" {
			return errors.New("provider name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider: %s", p.Name)
		}
		seen[p.Name] = true

		e := &p.Engine
		e.Type = strings.ToLower(strings.TrimSpace(e.Type))
		e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
		e.Path = strings.TrimSpace(e.Path)
		e.APIKeyEnv = strings.TrimSpace(e.APIKeyEnv)
		if strings.TrimSpace(e.APIKey) == "" && e.APIKeyEnv != "" {
			e.APIKey = strings.TrimSpace(os.Getenv(e.APIKeyEnv))
		}
		if e.MaxRetries < 0 {
			return fmt.Errorf("provider %q invalid engine.max_retries", p.Name)
		}

		switch e.Type {
		case EngineMock:
		case "openai_http", EngineOAIHTTP:
			e.Type = EngineOAIHTTP
			if e.BaseURL == "" {
				return fmt.Errorf("provider %q (oai_http) missing engine.base_url", p.Name)
			}
			if e.Path == "" {
				e.Path = "/v1/chat/completions"
			}
		case EngineAnthropic:
			if e.BaseURL == "" {
				e.BaseURL = "https://api.anthropic.com"
			}
			if e.Path == "" {
				e.Path = "/v1/messages"
			}
			if e.MaxTokens <= 0 {
				e.MaxTokens = 4096
			}
		default:
			return fmt.Errorf("unsupported engine type %q for provider %q", e.Type, p.Name)
		}
		if e.Type != EngineMock {
			if e.Timeout.Duration <= 0 {
				e.Timeout = Duration{Duration: 60 * time.Second}
			}
			// Matches the client SDK default of two retries per generation.
			if e.MaxRetries == 0 {
				e.MaxRetries = 2
			}
		}

		var models []string
		for _, m := range p.Models {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		p.Models = models
		p.DefaultModel = strings.TrimSpace(p.DefaultModel)
		if p.DefaultModel == "" && len(p.Models) > 0 {
			p.DefaultModel = p.Models[0]
		}
	}

	cfg.DefaultProvider = strings.ToLower(strings.TrimSpace(cfg.DefaultProvider))
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = cfg.Providers[0].Name
	}
	if !seen[cfg.DefaultProvider] {
		return fmt.Errorf("default provider %q is not configured", cfg.DefaultProvider)
	}
	return nil
}

// MissingKeys lists the API key variables of configured providers that are
// not set. Providers with an inline api_key are never reported.
func (cfg *Config) MissingKeys() []string {
	out := []string{}
	for _, p := range cfg.Providers {
		if p.Engine.Type == EngineMock || p.Engine.APIKeyEnv == "" {
			continue
		}
		if strings.TrimSpace(p.Engine.APIKey) == "" {
			out = append(out, p.Engine.APIKeyEnv)
		}
	}
	return out
}
