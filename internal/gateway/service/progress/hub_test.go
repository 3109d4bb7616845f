package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilitator/internal/interval"
)

func ev(id string, s interval.State) interval.Event {
	return interval.Event{IntervalID: id, State: s, Item: -1}
}

func drain(ch <-chan interval.Event) []interval.State {
	var out []interval.State
	for e := range ch {
		out = append(out, e.State)
	}
	return out
}

func TestSubscribeReplaysAndStreams(t *testing.T) {
	h := NewHub()
	h.Publish(ev("i1", interval.StateReceived))

	backlog, ch, cancel := h.Subscribe("i1")
	defer cancel()
	require.Len(t, backlog, 1)
	assert.Equal(t, interval.StateReceived, backlog[0].State)

	h.Publish(ev("i1", interval.StateItemsUpdating))
	h.Publish(ev("other", interval.StateReceived))
	h.Publish(ev("i1", interval.StateDone))

	assert.Equal(t, []interval.State{interval.StateItemsUpdating, interval.StateDone}, drain(ch))
}

func TestSubscribeAfterFinish(t *testing.T) {
	h := NewHub()
	h.Publish(ev("i1", interval.StateReceived))
	h.Publish(ev("i1", interval.StateFailed))

	backlog, ch, cancel := h.Subscribe("i1")
	defer cancel()
	assert.Len(t, backlog, 2)
	_, open := <-ch
	assert.False(t, open)
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub()
	_, ch, cancel := h.Subscribe("i1")
	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	h.Publish(ev("i1", interval.StateReceived))
	assert.Len(t, h.History("i1"), 1)
}

func TestSlowWatcherKeepsNewest(t *testing.T) {
	h := NewHub()
	_, ch, cancel := h.Subscribe("i1")
	defer cancel()
	for i := 0; i < subscriberBuffer+5; i++ {
		e := ev("i1", interval.StateItemUpdated)
		e.Item = i
		h.Publish(e)
	}
	var last interval.Event
	for i := 0; i < subscriberBuffer; i++ {
		last = <-ch
	}
	assert.Equal(t, subscriberBuffer+4, last.Item)
}

func TestResetReopensFinishedInterval(t *testing.T) {
	h := NewHub()
	h.Publish(ev("i1", interval.StateReceived))
	h.Publish(ev("i1", interval.StateDone))

	h.Reset("i1")
	assert.Empty(t, h.History("i1"))

	backlog, ch, cancel := h.Subscribe("i1")
	defer cancel()
	assert.Empty(t, backlog)
	h.Publish(ev("i1", interval.StateReceived))
	h.Publish(ev("i1", interval.StateFailed))
	assert.Equal(t, []interval.State{interval.StateReceived, interval.StateFailed}, drain(ch))
}
