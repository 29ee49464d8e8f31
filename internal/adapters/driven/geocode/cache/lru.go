// Package cache provides place-lookup caches and a caching decorator
// for driven.PlaceLookup.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Ensure LRU implements the interface.
var _ driven.PlaceCache = (*LRU)(nil)

// LRU is an in-process cache with a fixed capacity and per-entry TTL.
type LRU struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
}

type entry struct {
	key    string
	places []domain.Place
	exp    time.Time
}

// NewLRU creates a cache holding at most capacity keys for ttl each.
// A non-positive ttl keeps entries until they are evicted.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = domain.DefaultCacheSettings().Size
	}
	return &LRU{
		cap:  capacity,
		ttl:  ttl,
		lst:  list.New(),
		dict: make(map[string]*list.Element),
		now:  time.Now,
	}
}

// Get returns a copy of the cached places.
func (c *LRU) Get(_ context.Context, key string) ([]domain.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.dict[key]
	if !ok {
		return nil, false
	}
	it := e.Value.(entry)
	if c.ttl > 0 && !c.now().Before(it.exp) {
		c.lst.Remove(e)
		delete(c.dict, key)
		return nil, false
	}
	c.lst.MoveToFront(e)
	return append([]domain.Place(nil), it.places...), true
}

// Set stores places under key, evicting the least recently used entry
// when full.
func (c *LRU) Set(_ context.Context, key string, places []domain.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := entry{key: key, places: append([]domain.Place(nil), places...), exp: c.now().Add(c.ttl)}
	if e, ok := c.dict[key]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return nil
	}
	c.dict[key] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(entry).key)
		c.lst.Remove(back)
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
