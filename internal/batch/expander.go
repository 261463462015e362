// Package batch fills one template against many argument rows and streams
// the generated results back in input order.
package batch

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/prompttpl"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const DefaultPacing = 100 * time.Millisecond

type Config struct {
	// Pacing is the delay before each yielded item. Negative disables it.
	Pacing time.Duration
	// MaxConcurrency caps in-flight generations; 0 means unbounded.
	MaxConcurrency int
}

type Expander struct {
	gen    Generator
	log    *logger.Logger
	cfg    Config
	tracer trace.Tracer
}

func NewExpander(gen Generator, log *logger.Logger, cfg Config) *Expander {
	if cfg.Pacing == 0 {
		cfg.Pacing = DefaultPacing
	}
	if cfg.MaxConcurrency < 0 {
		cfg.MaxConcurrency = 0
	}
	return &Expander{
		gen:    gen,
		log:    log.With("service", "BatchExpander"),
		cfg:    cfg,
		tracer: otel.Tracer("promptsheet/batch"),
	}
}

// Expand fills template once per args record.
func Expand(template string, argsList []map[string]string) []Prompt {
	out := make([]Prompt, len(argsList))
	for i, args := range argsList {
		out[i] = Prompt{Body: prompttpl.Fill(template, args), Args: args}
	}
	return out
}

// Stream fills template against every record of argsList and streams the
// generations. See StreamPrompts.
func (e *Expander) Stream(ctx context.Context, template string, argsList []map[string]string) iter.Seq[Item] {
	return e.StreamPrompts(ctx, Expand(template, argsList))
}

// StreamPrompts dispatches one generation per prompt and yields results in
// input order regardless of completion order. Every call is started before
// the first item is yielded. A failed generation yields an item with an
// empty Value and Error set; it never ends the sequence early.
//
// Generations run on a context detached from ctx: when ctx is cancelled the
// sequence stops yielding but calls already in flight finish and are dropped.
// Each range over the returned sequence dispatches the whole batch again.
func (e *Expander) StreamPrompts(ctx context.Context, prompts []Prompt) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		if len(prompts) == 0 {
			return
		}
		results := e.dispatch(context.WithoutCancel(ctx), prompts)
		for i := range results {
			if e.cfg.Pacing > 0 {
				t := time.NewTimer(e.cfg.Pacing)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
			var it Item
			select {
			case <-ctx.Done():
				return
			case it = <-results[i]:
			}
			if !yield(it) {
				return
			}
		}
	}
}

func (e *Expander) dispatch(ctx context.Context, prompts []Prompt) []chan Item {
	results := make([]chan Item, len(prompts))
	for i := range results {
		results[i] = make(chan Item, 1)
	}
	var g errgroup.Group
	if e.cfg.MaxConcurrency > 0 {
		g.SetLimit(e.cfg.MaxConcurrency)
	}
	start := func() {
		for i, p := range prompts {
			g.Go(func() error {
				results[i] <- e.generate(ctx, i, p)
				return nil
			})
		}
	}
	if e.cfg.MaxConcurrency > 0 {
		// Go blocks once the limit is reached.
		go start()
	} else {
		start()
	}
	return results
}

func (e *Expander) generate(ctx context.Context, i int, p Prompt) (it Item) {
	ctx, span := e.tracer.Start(ctx, "batch.generate", trace.WithAttributes(attribute.Int("batch.index", i)))
	defer span.End()

	it = Item{Key: Key{Index: i}, Args: p.Args}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("batch generation panicked", "index", i, "panic", fmt.Sprint(r))
			span.SetStatus(codes.Error, "panic")
			it = Item{Key: Key{Index: i, Fallback: true}, Error: fmt.Sprintf("panic: %v", r), Args: p.Args}
		}
	}()

	start := time.Now()
	text, err := e.gen.Generate(ctx, p.Body)
	if err != nil {
		e.log.Warn("batch generation failed", "index", i, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		it.Error = err.Error()
		return it
	}
	it.Value = text
	return it
}
