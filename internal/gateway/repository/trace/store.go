// Package trace records what happened during each request: the interval
// events, model call counts and the final result.
package trace

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"facilitator/internal/interval"
)

// Kinds of traced requests.
const (
	KindTranscript    = "transcript"
	KindAgenda        = "agenda"
	KindSuggestAction = "suggest_action"
)

type Trace struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	State     interval.State   `json:"state"`
	Mode      string           `json:"mode,omitempty"`
	Items     int              `json:"items"`
	Status    string           `json:"agenda_status,omitempty"`
	Calls     int              `json:"llm_calls"`
	Failures  int              `json:"llm_failures"`
	Error     string           `json:"error,omitempty"`
	Events    []interval.Event `json:"events"`
	Result    json.RawMessage  `json:"result,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Store persists traces. Save is an upsert keyed by ID.
type Store interface {
	Save(ctx context.Context, t Trace) error
	Get(ctx context.Context, id string) (Trace, error)
	List(ctx context.Context, limit int) ([]Trace, error)
	Close() error
}

var ErrNotFound = errors.New("trace not found")

type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Trace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Trace)}
}

func (s *MemoryStore) Save(ctx context.Context, t Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byID[t.ID]; ok && t.CreatedAt.IsZero() {
		t.CreatedAt = prev.CreatedAt
	}
	t.Events = append([]interval.Event(nil), t.Events...)
	s.byID[t.ID] = t
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return Trace{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Trace, error) {
	s.mu.RLock()
	out := make([]Trace, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
