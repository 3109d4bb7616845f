package interval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilitator/internal/llmtool"
	"facilitator/internal/types"
)

type fakeTasks struct {
	mu         sync.Mutex
	completion []string
	bDone      chan struct{}
	fail       map[string]error
	handOvers  int
	whole      int
}

func (f *fakeTasks) UpdateAgendaItem(ctx context.Context, tr types.Transcription, item types.AgendaItem) (types.AgendaItem, error) {
	if err, ok := f.fail[item.Agenda]; ok {
		return types.AgendaItem{}, err
	}
	if f.bDone != nil {
		if item.Agenda == "B" {
			defer close(f.bDone)
		} else {
			select {
			case <-f.bDone:
			case <-ctx.Done():
				return types.AgendaItem{}, ctx.Err()
			}
		}
	}
	f.mu.Lock()
	f.completion = append(f.completion, item.Agenda)
	f.mu.Unlock()

	out := item.Clone()
	out.Minutes = types.StringPtr("updated " + item.Agenda)
	for i := range out.Goals {
		out.Goals[i].Done = true
	}
	return out, nil
}

func (f *fakeTasks) UpdateAgenda(ctx context.Context, tr types.Transcription, agenda types.Agenda) (types.Agenda, error) {
	f.whole++
	out := agenda.Clone()
	for i := range out.Items {
		out.Items[i].Minutes = types.StringPtr("whole")
	}
	return out, nil
}

func (f *fakeTasks) SynthesizeHandOver(ctx context.Context, tr types.Transcription, prev, updated types.Agenda) (types.HandOver, error) {
	f.handOvers++
	return types.HandOver{HandOver: "carry on"}, nil
}

func abc() types.Agenda {
	return types.Agenda{Items: []types.AgendaItem{
		{Agenda: "A", Goals: []types.Goal{{Condition: "a"}}},
		{Agenda: "B", Goals: []types.Goal{}},
		{Agenda: "C", Goals: []types.Goal{{Condition: "c1"}, {Condition: "c2"}}},
	}}
}

func TestRunPreservesItemOrder(t *testing.T) {
	tasks := &fakeTasks{bDone: make(chan struct{})}
	f := NewFlow(tasks, ModeParallel)

	out, err := f.Run(context.Background(), "iv1", types.Transcription{}, abc(), nil)
	require.NoError(t, err)

	require.Equal(t, "B", tasks.completion[0], "B must finish first for this test to mean anything")
	require.Len(t, out.Items, 3)
	assert.Equal(t, "A", out.Items[0].Agenda)
	assert.Equal(t, "B", out.Items[1].Agenda)
	assert.Equal(t, "C", out.Items[2].Agenda)
	assert.Equal(t, "updated B", *out.Items[1].Minutes)

	assert.Equal(t, types.StatusCompleted, out.Items[0].Status)
	assert.Equal(t, types.StatusNotStarted, out.Items[1].Status, "no goals stays NOT_STARTED")
	assert.Equal(t, types.StatusCompleted, out.Items[2].Status)
	require.NotNil(t, out.HandOver)
	assert.Equal(t, "carry on", *out.HandOver)
}

func TestRunFailsFast(t *testing.T) {
	exhausted := &llmtool.ExhaustedRetriesError{Task: "update_agenda_item", Attempts: 6, Last: errors.New("quota")}
	tasks := &fakeTasks{fail: map[string]error{"B": exhausted}}
	var mu sync.Mutex
	var events []Event
	f := NewFlow(tasks, ModeParallel)

	out, err := f.Run(context.Background(), "iv2", types.Transcription{}, abc(), func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, llmtool.ErrExhaustedRetries)
	assert.Nil(t, out.Items)
	assert.Nil(t, out.HandOver)
	assert.Equal(t, 0, tasks.handOvers)
	last := events[len(events)-1]
	assert.Equal(t, StateFailed, last.State)
	assert.NotEmpty(t, last.Error)
}

func TestRunDoesNotMutateInput(t *testing.T) {
	in := abc()
	_, err := NewFlow(&fakeTasks{}, ModeParallel).Run(context.Background(), "iv", types.Transcription{}, in, nil)
	require.NoError(t, err)
	assert.Nil(t, in.Items[0].Minutes)
	assert.False(t, in.Items[0].Goals[0].Done)
}

func TestRunWholeMode(t *testing.T) {
	tasks := &fakeTasks{}
	out, err := NewFlow(tasks, ModeWhole).Run(context.Background(), "iv", types.Transcription{}, abc(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.whole)
	assert.Equal(t, "whole", *out.Items[2].Minutes)
	assert.Equal(t, types.StatusNotStarted, out.Items[0].Status)
}

func TestRunEmitsStatesInOrder(t *testing.T) {
	var mu sync.Mutex
	var states []State
	f := NewFlow(&fakeTasks{}, ModeParallel)
	f.Now = func() time.Time { return time.Unix(0, 0) }
	f.Observe = func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if e.State != StateItemUpdated {
			states = append(states, e.State)
		}
	}

	_, err := f.Run(context.Background(), "iv", types.Transcription{}, abc(), nil)
	require.NoError(t, err)
	assert.Equal(t, []State{
		StateReceived, StateItemsUpdating, StateItemsResolved, StateHandOverSynthesized, StateDone,
	}, states)
}

func TestRunEmptyAgenda(t *testing.T) {
	tasks := &fakeTasks{}
	out, err := NewFlow(tasks, ModeParallel).Run(context.Background(), "iv", types.Transcription{}, types.Agenda{}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, types.StatusNotStarted, out.Status())
	assert.Equal(t, 1, tasks.handOvers)
}

func TestRunTimeout(t *testing.T) {
	tasks := &fakeTasks{bDone: make(chan struct{})}
	tasks.fail = map[string]error{}
	// B never runs, so A and C wait until the deadline.
	in := types.Agenda{Items: []types.AgendaItem{{Agenda: "A"}, {Agenda: "C"}}}
	f := NewFlow(tasks, ModeParallel)
	f.Timeout = 20 * time.Millisecond

	_, err := f.Run(context.Background(), "iv", types.Transcription{}, in, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeParallel, m)
	m, err = ParseMode("whole")
	require.NoError(t, err)
	assert.Equal(t, ModeWhole, m)
	_, err = ParseMode("serial")
	assert.Error(t, err)
}
