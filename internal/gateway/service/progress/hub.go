// Package progress fans interval events out to watchers and keeps a short
// replay history so late subscribers see what already happened.
package progress

import (
	"strings"
	"sync"
	"time"

	memcache "facilitator/internal/cache/memory"
	"facilitator/internal/interval"
)

const (
	defaultHistoryEntries = 1024
	defaultHistoryTTL     = 10 * time.Minute
	subscriberBuffer      = 32
)

type Hub struct {
	history *memcache.LRUTTL[string, []interval.Event]

	mu   sync.Mutex
	subs map[string]map[chan interval.Event]struct{}
}

func NewHub() *Hub {
	return NewHubWithHistory(defaultHistoryEntries, defaultHistoryTTL)
}

func NewHubWithHistory(maxIntervals int, ttl time.Duration) *Hub {
	return &Hub{
		history: memcache.NewLRUTTL[string, []interval.Event](maxIntervals, ttl),
		subs:    make(map[string]map[chan interval.Event]struct{}),
	}
}

// Publish records e and delivers it to current watchers. Terminal events
// close the watchers' channels.
func (h *Hub) Publish(e interval.Event) {
	id := strings.TrimSpace(e.IntervalID)
	if h == nil || id == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history.Update(id, func(cur []interval.Event, _ bool) []interval.Event {
		return append(cur, e)
	})
	for ch := range h.subs[id] {
		push(ch, e)
		if e.State.Terminal() {
			close(ch)
		}
	}
	if e.State.Terminal() {
		delete(h.subs, id)
	}
}

// Subscribe returns the events seen so far for id and a channel carrying
// the ones that follow. The channel is closed once the interval finishes
// or cancel is called.
func (h *Hub) Subscribe(id string) (backlog []interval.Event, events <-chan interval.Event, cancel func()) {
	id = strings.TrimSpace(id)
	ch := make(chan interval.Event, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	past, _ := h.history.Get(id)
	backlog = append([]interval.Event(nil), past...)
	if n := len(backlog); n > 0 && backlog[n-1].State.Terminal() {
		close(ch)
		return backlog, ch, func() {}
	}
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan interval.Event]struct{})
	}
	h.subs[id][ch] = struct{}{}
	var once sync.Once
	cancel = func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, id)
				}
			}
		})
	}
	return backlog, ch, cancel
}

// Reset forgets the recorded events for id so a reused id starts a fresh
// history. Current watchers stay subscribed.
func (h *Hub) Reset(id string) {
	id = strings.TrimSpace(id)
	if h == nil || id == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history.Delete(id)
}

// History returns the recorded events for id.
func (h *Hub) History(id string) []interval.Event {
	past, _ := h.history.Get(strings.TrimSpace(id))
	return append([]interval.Event(nil), past...)
}

// push drops the oldest buffered event when a watcher falls behind.
func push(ch chan interval.Event, e interval.Event) {
	select {
	case ch <- e:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- e:
	default:
	}
}
