package llm

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// Middleware decorates an LLMClient with a cross-cutting concern.
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// RateLimit throttles calls to rps per second with the given burst.
// rps <= 0 disables it.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, req)
}

// WithLogging logs request size per phase and any error. With verbose set
// it also logs a preview of the text parts, media payloads redacted.
func WithLogging(logger *log.Logger, verbose bool) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger, verbose: verbose}
	}
}

type logging struct {
	next    LLMClient
	log     *log.Logger
	verbose bool
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	size, media := len(req.SystemInstruction), 0
	for _, p := range req.Parts {
		if p.IsMedia() {
			media++
			continue
		}
		size += len(p.Text)
	}
	l.log.Printf("LLM request (%s): %d bytes, %d parts, %d media", phase, size, len(req.Parts), media)
	if l.verbose {
		l.log.Printf("LLM request (%s) preview: %s", phase, previewParts(req.Parts, 400))
	}
	raw, err := l.next.GenerateJSON(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", phase, err)
	}
	return raw, err
}

func previewParts(parts []Part, limit int) string {
	var b strings.Builder
	for _, p := range parts {
		if p.IsMedia() {
			b.WriteString("[media " + p.MIMEType + "] ")
			continue
		}
		s, _ := RedactMedia(p.Text).(string)
		b.WriteString(s)
		b.WriteString(" ")
	}
	out := b.String()
	if r := []rune(out); len(r) > limit {
		out = string(r[:limit]) + "..."
	}
	return out
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateJSON.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next LLMClient) LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next LLMClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, PhaseFrom(ctx), req)
	}
	raw, err := h.next.GenerateJSON(ctx, req)
	if hook != nil {
		hook.After(ctx, PhaseFrom(ctx), raw, err)
	}
	return raw, err
}
