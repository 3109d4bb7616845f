package meeting

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/interval"
	"facilitator/internal/llm"
)

// callCounter is a PromptHook that counts model calls for a trace.
type callCounter struct {
	calls    atomic.Int64
	failures atomic.Int64
}

func (c *callCounter) Before(ctx context.Context, phase string, req llm.Request) {
	c.calls.Add(1)
}

func (c *callCounter) After(ctx context.Context, phase string, raw json.RawMessage, err error) {
	if err != nil {
		c.failures.Add(1)
	}
}

func withCounter(ctx context.Context) (context.Context, *callCounter) {
	c := &callCounter{}
	return llm.WithHook(ctx, c), c
}

func (s *Service) startTrace(id, kind string, items int) trace.Trace {
	now := s.now()
	return trace.Trace{
		ID:        id,
		Kind:      kind,
		State:     interval.StateReceived,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// finishTrace stamps the outcome onto rec and saves it. A failed save is
// logged; it never fails the request.
func (s *Service) finishTrace(ctx context.Context, rec *trace.Trace, counter *callCounter, result any, err error) {
	rec.Calls = int(counter.calls.Load())
	rec.Failures = int(counter.failures.Load())
	rec.UpdatedAt = s.now()
	if err != nil {
		rec.State = interval.StateFailed
		rec.Error = err.Error()
	} else {
		rec.State = interval.StateDone
		if b, mErr := json.Marshal(result); mErr == nil {
			rec.Result = b
		}
	}
	if sErr := s.traces.Save(context.WithoutCancel(ctx), *rec); sErr != nil {
		log.Printf("save trace %s: %v", rec.ID, sErr)
	}
}
