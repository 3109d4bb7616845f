package meeting

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/interval"
	"facilitator/internal/types"
)

// UpdateInput is one interval submitted by a client.
type UpdateInput struct {
	// IntervalID is optional; a ULID is assigned when empty.
	IntervalID string
	Host       io.Reader
	Meet       io.Reader
	Agenda     types.Agenda
}

// UpdateAgenda transcribes the interval audio and runs the agenda flow.
// The returned id names the interval for progress and trace lookups.
func (s *Service) UpdateAgenda(ctx context.Context, in UpdateInput) (string, types.Agenda, error) {
	id := s.intervalID(in.IntervalID)
	run := s.beginInterval(ctx, id, len(in.Agenda.Items))
	tr, err := s.transcribe(run.ctx, in.Host, in.Meet)
	if err != nil {
		run.observe(interval.Event{IntervalID: id, State: interval.StateFailed, Item: -1, Error: err.Error(), At: s.now()})
		run.finish(types.Agenda{}, err)
		return id, types.Agenda{}, err
	}
	out, err := s.flow.Run(run.ctx, id, tr, in.Agenda, run.observe)
	run.finish(out, err)
	return id, out, err
}

// UpdateAgendaFromTranscript runs the agenda flow on a transcription the
// caller already has.
func (s *Service) UpdateAgendaFromTranscript(ctx context.Context, intervalID string, tr types.Transcription, agenda types.Agenda) (string, types.Agenda, error) {
	id := s.intervalID(intervalID)
	run := s.beginInterval(ctx, id, len(agenda.Items))
	out, err := s.flow.Run(run.ctx, id, tr, agenda, run.observe)
	run.finish(out, err)
	return id, out, err
}

func (s *Service) intervalID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.newID()
}

func (s *Service) now() time.Time {
	if s.flow != nil && s.flow.Now != nil {
		return s.flow.Now()
	}
	return time.Now()
}

type intervalRun struct {
	s       *Service
	ctx     context.Context
	counter *callCounter

	mu  sync.Mutex
	rec trace.Trace
}

func (s *Service) beginInterval(ctx context.Context, id string, items int) *intervalRun {
	rec := s.startTrace(id, trace.KindAgenda, items)
	rec.Mode = string(s.flow.Mode)
	s.hub.Reset(id)
	ctx, counter := withCounter(ctx)
	return &intervalRun{s: s, ctx: ctx, counter: counter, rec: rec}
}

// observe is the flow observer; item updates arrive concurrently.
func (r *intervalRun) observe(e interval.Event) {
	r.mu.Lock()
	r.rec.Events = append(r.rec.Events, e)
	r.rec.State = e.State
	r.mu.Unlock()
	r.s.hub.Publish(e)
}

func (r *intervalRun) finish(out types.Agenda, err error) {
	r.mu.Lock()
	rec := r.rec
	r.mu.Unlock()
	if err == nil {
		rec.Status = string(out.Status())
	}
	r.s.finishTrace(r.ctx, &rec, r.counter, out, err)
}
