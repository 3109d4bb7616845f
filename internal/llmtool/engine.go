package llmtool

import (
	"context"
	"errors"
	"log"
	"time"

	"facilitator/internal/llm"
	"facilitator/internal/schema"
)

const (
	DefaultMaxRetries  = 5
	DefaultBackoffUnit = time.Second
	DefaultTemperature = 0.5

	// MaxRetriesLimit bounds the retry budget so the backoff shift stays in range.
	MaxRetriesLimit = 20
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Engine runs schema-constrained generation with validation and retry.
// Attempts are numbered from 0; after failed attempt n < MaxRetries it
// sleeps BackoffUnit * 2^n, so MaxRetries+1 attempts are made at most.
type Engine struct {
	LLM         llm.LLMClient
	MaxRetries  int
	BackoffUnit time.Duration
	Temperature float32
	Sleep       Sleeper
	Logger      *log.Logger
}

type Option func(*Engine)

func WithMaxRetries(n int) Option { return func(e *Engine) { e.MaxRetries = n } }

func WithBackoffUnit(d time.Duration) Option { return func(e *Engine) { e.BackoffUnit = d } }

func WithTemperature(t float32) Option { return func(e *Engine) { e.Temperature = t } }

func WithSleeper(s Sleeper) Option { return func(e *Engine) { e.Sleep = s } }

func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.Logger = l } }

func NewEngine(client llm.LLMClient, opts ...Option) *Engine {
	e := &Engine{
		LLM:         client,
		MaxRetries:  DefaultMaxRetries,
		BackoffUnit: DefaultBackoffUnit,
		Temperature: DefaultTemperature,
		Sleep:       SleepContext,
		Logger:      log.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.MaxRetries < 0 {
		e.MaxRetries = 0
	}
	if e.MaxRetries > MaxRetriesLimit {
		e.MaxRetries = MaxRetriesLimit
	}
	return e
}

// Backoff is the sleep after failed attempt n. The exponent is capped at
// MaxRetriesLimit.
func (e *Engine) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > MaxRetriesLimit {
		attempt = MaxRetriesLimit
	}
	return e.BackoffUnit * time.Duration(1<<attempt)
}

// Call describes one task invocation. Check, when set, runs after schema
// validation and may repair the value or reject it; a rejection counts as
// a failed attempt.
type Call[T schema.Record] struct {
	Task              string
	SystemInstruction string
	Parts             []llm.Part
	Check             func(T) (T, error)
}

// Generate runs call until it yields a valid T or the retry budget is spent.
// Schema export errors are configuration errors and are returned without
// retrying.
func Generate[T schema.Record](ctx context.Context, e *Engine, call Call[T]) (T, error) {
	var zero T
	rs := zero.RecordSchema()
	dict, err := schema.Export(rs)
	if err != nil {
		return zero, err
	}
	req := llm.Request{
		SystemInstruction: call.SystemInstruction,
		Parts:             call.Parts,
		ResponseSchema:    dict,
		Temperature:       e.Temperature,
	}
	ctx = llm.WithPhase(ctx, call.Task)

	for attempt := 0; ; attempt++ {
		out, err := attemptOnce(ctx, e, call, req)
		if err == nil {
			return out, nil
		}
		e.Logger.Printf("%s: attempt %d failed: %v", call.Task, attempt, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, errors.Join(ctxErr, err)
		}
		if attempt >= e.MaxRetries {
			return zero, &ExhaustedRetriesError{Task: call.Task, Attempts: attempt + 1, Last: err}
		}
		if err := e.Sleep(ctx, e.Backoff(attempt)); err != nil {
			return zero, err
		}
	}
}

func attemptOnce[T schema.Record](ctx context.Context, e *Engine, call Call[T], req llm.Request) (T, error) {
	var zero T
	raw, err := e.LLM.GenerateJSON(ctx, req)
	if err != nil {
		return zero, err
	}
	out, err := ParseRecord[T](call.Task, zero.RecordSchema(), raw)
	if err != nil {
		return zero, err
	}
	if call.Check != nil {
		checked, err := call.Check(out)
		if err != nil {
			return zero, &ValidationError{Task: call.Task, Err: err}
		}
		out = checked
	}
	return out, nil
}
