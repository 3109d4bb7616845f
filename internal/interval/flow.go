// Package interval runs one meeting-interval update: per-item agenda
// updates in parallel, status resolution, then hand-over synthesis.
package interval

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"facilitator/internal/types"
)

// State is a step of the interval update.
type State string

const (
	StateReceived            State = "received"
	StateItemsUpdating       State = "items_updating"
	StateItemUpdated         State = "item_updated"
	StateItemsResolved       State = "items_resolved"
	StateHandOverSynthesized State = "hand_over_synthesized"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// Terminal reports whether no further events follow s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Event is emitted on every state change. Item is the agenda index for
// StateItemUpdated and -1 otherwise.
type Event struct {
	IntervalID string    `json:"interval_id"`
	State      State     `json:"state"`
	Item       int       `json:"item"`
	Agenda     string    `json:"agenda,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Observer receives flow events. It must not block.
type Observer func(Event)

// Mode selects how items are updated.
type Mode string

const (
	ModeParallel Mode = "parallel"
	ModeWhole    Mode = "whole"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeParallel, "":
		return ModeParallel, nil
	case ModeWhole:
		return ModeWhole, nil
	}
	return "", fmt.Errorf("unknown agenda update mode %q", s)
}

// Tasks are the model calls the flow depends on.
type Tasks interface {
	UpdateAgendaItem(ctx context.Context, tr types.Transcription, item types.AgendaItem) (types.AgendaItem, error)
	UpdateAgenda(ctx context.Context, tr types.Transcription, agenda types.Agenda) (types.Agenda, error)
	SynthesizeHandOver(ctx context.Context, tr types.Transcription, prev, updated types.Agenda) (types.HandOver, error)
}

// Flow is safe for concurrent use; per-run state lives on the stack.
type Flow struct {
	Tasks   Tasks
	Mode    Mode
	Timeout time.Duration
	Observe Observer
	Now     func() time.Time
}

func NewFlow(tasks Tasks, mode Mode) *Flow {
	return &Flow{Tasks: tasks, Mode: mode, Now: time.Now}
}

func (f *Flow) emit(obs Observer, e Event) {
	if f.Now != nil {
		e.At = f.Now()
	} else {
		e.At = time.Now()
	}
	if f.Observe != nil {
		f.Observe(e)
	}
	if obs != nil {
		obs(e)
	}
}

// Run updates prior with tr and returns the resolved agenda carrying a new
// hand-over note. Any item failure fails the whole run and no agenda is
// returned. obs, when non-nil, receives this run's events in addition to
// f.Observe.
func (f *Flow) Run(ctx context.Context, id string, tr types.Transcription, prior types.Agenda, obs Observer) (types.Agenda, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	ev := func(s State) Event { return Event{IntervalID: id, State: s, Item: -1} }
	fail := func(err error) (types.Agenda, error) {
		e := ev(StateFailed)
		e.Error = err.Error()
		f.emit(obs, e)
		return types.Agenda{}, err
	}

	f.emit(obs, ev(StateReceived))
	prior = prior.Clone()

	f.emit(obs, ev(StateItemsUpdating))
	var updated types.Agenda
	var err error
	switch f.Mode {
	case ModeWhole:
		updated, err = f.Tasks.UpdateAgenda(ctx, tr, prior.Clone())
	case ModeParallel, "":
		updated, err = f.updateItems(ctx, id, tr, prior, obs)
	default:
		err = fmt.Errorf("unknown agenda update mode %q", f.Mode)
	}
	if err != nil {
		return fail(err)
	}

	resolved := types.ResolveAgendaStatus(types.Agenda{Items: updated.Items})
	f.emit(obs, ev(StateItemsResolved))

	ho, err := f.Tasks.SynthesizeHandOver(ctx, tr, prior, resolved)
	if err != nil {
		return fail(fmt.Errorf("hand-over: %w", err))
	}
	note := ho.HandOver
	resolved.HandOver = &note
	f.emit(obs, ev(StateHandOverSynthesized))

	f.emit(obs, ev(StateDone))
	return resolved, nil
}

// updateItems runs one task per item and reassembles results by index, so
// completion order never affects item order. The first failure cancels the rest.
func (f *Flow) updateItems(ctx context.Context, id string, tr types.Transcription, prior types.Agenda, obs Observer) (types.Agenda, error) {
	items := make([]types.AgendaItem, len(prior.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range prior.Items {
		g.Go(func() error {
			out, err := f.Tasks.UpdateAgendaItem(gctx, tr, item.Clone())
			if err != nil {
				return fmt.Errorf("agenda item %d (%s): %w", i, item.Agenda, err)
			}
			items[i] = out
			f.emit(obs, Event{IntervalID: id, State: StateItemUpdated, Item: i, Agenda: out.Agenda})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Agenda{}, err
	}
	return types.Agenda{Items: items}, nil
}
