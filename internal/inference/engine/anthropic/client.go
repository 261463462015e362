package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/inference/config"
	"github.com/yungbote/promptsheet-backend/internal/inference/engine"
	"github.com/yungbote/promptsheet-backend/internal/platform/httpx"
)

const apiVersion = "2023-06-01"

// Engine calls the Anthropic messages API.
type Engine struct {
	url        string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	maxTokens  int
	httpClient *http.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = "/v1/messages"
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Engine{
		url:        baseURL + path,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		maxTokens:  maxTokens,
		httpClient: &http.Client{},
	}, nil
}

// NewWithHTTPClient is intended for tests.
func NewWithHTTPClient(cfg config.EngineConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	req := request{Model: model, MaxTokens: e.maxTokens}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		req.Temperature = &t
	}
	var system []string
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if strings.EqualFold(m.Role, "system") {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: strings.ToLower(m.Role), Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")
	if len(req.Messages) == 0 {
		return "", errors.New("no messages")
	}

	var out response
	err := engine.Retry(ctx, e.maxRetries, 0, func(ctx context.Context) error {
		out = response{}
		return e.do(ctx, req, &out)
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func (e *Engine) do(ctx context.Context, body request, out *response) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", apiVersion)
	if e.apiKey != "" {
		req.Header.Set("x-api-key", e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &engine.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			RetryAfter: httpx.RetryAfterDuration(resp, 0, 30*time.Second),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse anthropic response: %w", err)
	}
	return nil
}
