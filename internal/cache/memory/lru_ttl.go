// Package memory holds small in-process caches.
package memory

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUTTL is a threadsafe LRU cache whose entries also expire ttl after
// their last write.
type LRUTTL[K comparable, V any] struct {
	mu         sync.Mutex
	ll         *list.List
	items      map[K]*list.Element
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewLRUTTL[K comparable, V any](maxEntries int, ttl time.Duration) *LRUTTL[K, V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LRUTTL[K, V]{
		ll:         list.New(),
		items:      make(map[K]*list.Element),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *LRUTTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.liveLocked(key)
	if !ok {
		return zero, false
	}
	c.ll.MoveToFront(ele)
	return ele.Value.(*entry[K, V]).value, true
}

func (c *LRUTTL[K, V]) Set(key K, value V) {
	c.Update(key, func(V, bool) V { return value })
}

// Update replaces the value under key with fn(current, found) atomically.
func (c *LRUTTL[K, V]) Update(key K, fn func(cur V, ok bool) V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.liveLocked(key); ok {
		ent := ele.Value.(*entry[K, V])
		ent.value = fn(ent.value, true)
		ent.expiresAt = c.now().Add(c.ttl)
		c.ll.MoveToFront(ele)
		return
	}
	var zero V
	ent := &entry[K, V]{key: key, value: fn(zero, false), expiresAt: c.now().Add(c.ttl)}
	c.items[key] = c.ll.PushFront(ent)
	for c.ll.Len() > c.maxEntries {
		c.removeElement(c.ll.Back())
	}
}

func (c *LRUTTL[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.items[key]; ok {
		c.removeElement(ele)
	}
}

func (c *LRUTTL[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// liveLocked returns the element for key, dropping it if expired.
func (c *LRUTTL[K, V]) liveLocked(key K) (*list.Element, bool) {
	ele, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(ele.Value.(*entry[K, V]).expiresAt) {
		c.removeElement(ele)
		return nil, false
	}
	return ele, true
}

func (c *LRUTTL[K, V]) removeElement(ele *list.Element) {
	if ele == nil {
		return
	}
	c.ll.Remove(ele)
	delete(c.items, ele.Value.(*entry[K, V]).key)
}
