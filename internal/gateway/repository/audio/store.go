package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"facilitator/internal/types"
)

// Store holds mixed audio only for as long as a transcription call needs it.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (types.AudioRef, error)
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("audio object not found")

// ObjectKey is the key used for one uploaded interval.
func ObjectKey(id string) string { return "audio/" + strings.TrimSpace(id) + ".mp3" }

// MemoryStore keeps objects in process; URIs use the mem:// scheme.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (types.AudioRef, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return types.AudioRef{}, fmt.Errorf("key is required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return types.AudioRef{}, fmt.Errorf("read audio: %w", err)
	}
	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	s.mu.Unlock()
	return types.AudioRef{URI: "mem://" + key, MIMEType: contentType}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

// Get returns a stored object; tests use it to inspect uploads.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
