package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/platform/httpx"
)

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Engine is one provider's text generation capability.
type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// UserPrompt wraps a single prompt body as a one-message conversation.
func UserPrompt(prompt string) []Message {
	return []Message{{Role: "user", Content: prompt}}
}

type HTTPError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

// Retry runs fn until it succeeds, returns a non-retryable error, or has
// been attempted 1+maxRetries times. Waits grow from base with jitter and
// honour an upstream Retry-After.
func Retry(ctx context.Context, maxRetries int, base time.Duration, fn func(ctx context.Context) error) error {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == maxRetries || !httpx.IsRetryableError(err) {
			return err
		}
		wait := base << attempt
		if he, ok := err.(*HTTPError); ok && he.RetryAfter > 0 {
			wait = he.RetryAfter
		}
		if serr := httpx.SleepCtx(ctx, httpx.JitterSleep(wait)); serr != nil {
			return err
		}
	}
	return err
}
