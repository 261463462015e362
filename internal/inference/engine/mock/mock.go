package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/inference/engine"
)

// Engine echoes the last user message. It needs no credentials, so it is
// the fallback route when no provider key is configured.
type Engine struct {
	Latency time.Duration
}

func New(latency time.Duration) *Engine {
	return &Engine{Latency: latency}
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	if e.Latency > 0 {
		t := time.NewTimer(e.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}
