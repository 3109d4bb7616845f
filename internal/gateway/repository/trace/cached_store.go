package trace

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore serves recent traces from memory and writes through to base.
type CachedStore struct {
	base  Store
	cache *lru.Cache[string, Trace]
}

func NewCachedStore(base Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, Trace](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{base: base, cache: cache}, nil
}

func (s *CachedStore) Save(ctx context.Context, t Trace) error {
	if err := s.base.Save(ctx, t); err != nil {
		s.cache.Remove(t.ID)
		return err
	}
	s.cache.Add(t.ID, t)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (Trace, error) {
	if t, ok := s.cache.Get(id); ok {
		return t, nil
	}
	t, err := s.base.Get(ctx, id)
	if err != nil {
		return Trace{}, err
	}
	s.cache.Add(id, t)
	return t, nil
}

func (s *CachedStore) List(ctx context.Context, limit int) ([]Trace, error) {
	return s.base.List(ctx, limit)
}

func (s *CachedStore) Close() error {
	s.cache.Purge()
	return s.base.Close()
}
