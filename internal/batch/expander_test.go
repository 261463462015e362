package batch

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

func newTestExpander(gen GeneratorFunc, cfg Config) *Expander {
	if cfg.Pacing == 0 {
		cfg.Pacing = -1
	}
	return NewExpander(gen, logger.NewNop(), cfg)
}

func collect(seq func(func(Item) bool)) []Item {
	var out []Item
	for it := range seq {
		out = append(out, it)
	}
	return out
}

func TestStreamYieldsInIndexOrderNotCompletionOrder(t *testing.T) {
	bDone := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		switch prompt {
		case "Hello A":
			<-bDone
			return "", errors.New("provider down")
		case "Hello B":
			close(bDone)
			return "Hi B", nil
		}
		return "", errors.New("unexpected prompt " + prompt)
	})
	e := newTestExpander(gen, Config{})
	args := []map[string]string{{"x": "A"}, {"x": "B"}}

	items := collect(e.Stream(context.Background(), "Hello {x}", args))
	if len(items) != 2 {
		t.Fatalf("items=%d", len(items))
	}
	if items[0].Key != (Key{Index: 0}) || items[0].Value != "" || items[0].Error != "provider down" {
		t.Fatalf("item 0=%+v", items[0])
	}
	if items[1].Key != (Key{Index: 1}) || items[1].Value != "Hi B" || items[1].Failed() {
		t.Fatalf("item 1=%+v", items[1])
	}
	if !reflect.DeepEqual(items[1].Args, map[string]string{"x": "B"}) {
		t.Fatalf("args not carried: %v", items[1].Args)
	}
}

func TestStreamLaunchesEveryCallBeforeYielding(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	all := make(chan struct{})
	go func() {
		started.Wait()
		close(all)
	}()
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		started.Done()
		select {
		case <-all:
			return prompt, nil
		case <-time.After(2 * time.Second):
			return "", errors.New("calls were not concurrent")
		}
	})
	e := newTestExpander(gen, Config{})
	args := make([]map[string]string, n)
	for i := range args {
		args[i] = map[string]string{"i": string(rune('a' + i))}
	}
	for it := range e.Stream(context.Background(), "{i}", args) {
		if it.Failed() {
			t.Fatalf("item %v failed: %s", it.Key, it.Error)
		}
		if want := string(rune('a' + it.Key.Index)); it.Value != want {
			t.Fatalf("item %v value=%q want %q", it.Key, it.Value, want)
		}
	}
}

func TestStreamRedispatchesOnEveryRange(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	e := newTestExpander(gen, Config{})
	seq := e.Stream(context.Background(), "p", []map[string]string{{}, {}, {}})
	collect(seq)
	collect(seq)
	if got := calls.Load(); got != 6 {
		t.Fatalf("calls=%d want 6", got)
	}
}

func TestStreamRecoversPanicWithFallbackKey(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if prompt == "boom" {
			panic("boom")
		}
		return "fine", nil
	})
	e := newTestExpander(gen, Config{})
	items := collect(e.StreamPrompts(context.Background(), []Prompt{{Body: "ok"}, {Body: "boom"}, {Body: "ok"}}))
	if len(items) != 3 {
		t.Fatalf("items=%d", len(items))
	}
	if items[1].Key != (Key{Index: 1, Fallback: true}) || items[1].Value != "" || items[1].Error != "panic: boom" {
		t.Fatalf("item 1=%+v", items[1])
	}
	if items[2].Value != "fine" {
		t.Fatalf("item 2=%+v", items[2])
	}
	b, err := json.Marshal(items[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"key":"item1","value":"","error":"panic: boom"}` {
		t.Fatalf("json=%s", b)
	}
}

func TestStreamHonorsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return prompt, nil
	})
	e := newTestExpander(gen, Config{MaxConcurrency: 2})
	prompts := []Prompt{{Body: "0"}, {Body: "1"}, {Body: "2"}, {Body: "3"}, {Body: "4"}}
	items := collect(e.StreamPrompts(context.Background(), prompts))
	for i, it := range items {
		if it.Key.Index != i || it.Value != prompts[i].Body {
			t.Fatalf("item %d=%+v", i, it)
		}
	}
	if peak.Load() > 2 {
		t.Fatalf("peak concurrency=%d", peak.Load())
	}
}

func TestStreamDetachesGenerationFromConsumerCancel(t *testing.T) {
	release := make(chan struct{})
	genErrs := make(chan error, 2)
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if prompt == "fast" {
			return "done", nil
		}
		<-release
		genErrs <- ctx.Err()
		return "late", nil
	})
	e := newTestExpander(gen, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []Item
	for it := range e.StreamPrompts(ctx, []Prompt{{Body: "fast"}, {Body: "slow"}}) {
		got = append(got, it)
		cancel()
	}
	if len(got) != 1 || got[0].Value != "done" {
		t.Fatalf("got %+v", got)
	}
	close(release)
	select {
	case err := <-genErrs:
		if err != nil {
			t.Fatalf("in-flight generation saw cancellation: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("slow generation never finished")
	}
}

func TestStreamPacing(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) { return prompt, nil })
	e := newTestExpander(gen, Config{Pacing: 20 * time.Millisecond})
	start := time.Now()
	items := collect(e.StreamPrompts(context.Background(), []Prompt{{Body: "a"}, {Body: "b"}, {Body: "c"}}))
	if len(items) != 3 {
		t.Fatalf("items=%d", len(items))
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("pacing not applied, elapsed=%v", elapsed)
	}
}

func TestStreamEmptyBatch(t *testing.T) {
	e := newTestExpander(func(ctx context.Context, prompt string) (string, error) {
		t.Fatalf("generator should not be called")
		return "", nil
	}, Config{})
	if items := collect(e.Stream(context.Background(), "x", nil)); len(items) != 0 {
		t.Fatalf("items=%v", items)
	}
}

func TestKeyJSON(t *testing.T) {
	for _, k := range []Key{{Index: 3}, {Index: 4, Fallback: true}} {
		b, err := json.Marshal(k)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Key
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != k {
			t.Fatalf("round trip %s: got %+v", b, back)
		}
	}
}
