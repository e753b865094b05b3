package store

import "sync"

// Generation identifies a fetch. Only the result of the latest issued
// generation may replace a collection.
type Generation uint64

// Collection is an ordered in-memory set of entities keyed by id.
// Every method is atomic; readers receive copies.
type Collection[T any] struct {
	mu    sync.RWMutex
	key   func(T) string
	items []T
	gen   Generation
	err   error
}

// NewCollection creates an empty collection using key to identify entities
func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{key: key}
}

// All returns a copy of the entities in display order
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of entities
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the entity with id
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// ReplaceAll drops the current contents and stores items
func (c *Collection[T]) ReplaceAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = dedupe(items, c.key)
	c.err = nil
}

// BeginFetch issues a new generation for a fetch about to start
func (c *Collection[T]) BeginFetch() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// ReplaceAllAt replaces the contents only if gen is still the latest
// generation. It reports whether the items were applied.
func (c *Collection[T]) ReplaceAllAt(gen Generation, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.items = dedupe(items, c.key)
	c.err = nil
	return true
}

// InsertOne puts entity first. An entity with the same id is removed first
// so ids stay unique.
func (c *Collection[T]) InsertOne(entity T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if i := c.indexOf(c.key(entity)); i >= 0 {
		c.items = append(c.items[:i:i], c.items[i+1:]...)
	}
	items := make([]T, 0, len(c.items)+1)
	items = append(items, entity)
	c.items = append(items, c.items...)
}

// ReplaceOne swaps the entity with the same id in place. Unknown ids are
// ignored; the result reports whether anything was replaced.
func (c *Collection[T]) ReplaceOne(entity T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(c.key(entity))
	if i < 0 {
		return false
	}
	c.gen++
	c.items[i] = entity
	return true
}

// RemoveOne deletes the entity with id, keeping the order of the rest.
// Unknown ids are ignored.
func (c *Collection[T]) RemoveOne(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	i := c.indexOf(id)
	if i < 0 {
		return zero, false
	}
	c.gen++
	removed := c.items[i]
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return removed, true
}

// RemoveWhere deletes every entity matching fn and returns how many went
func (c *Collection[T]) RemoveWhere(fn func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if !fn(it) {
			kept = append(kept, it)
		}
	}
	n := len(c.items) - len(kept)
	if n > 0 {
		c.gen++
		c.items = kept
	}
	return n
}

// Err returns the failure of the last fetch, nil after a successful one
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// SetErr records a fetch failure without touching the contents
func (c *Collection[T]) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// SetErrAt records a fetch failure only if gen is still the latest
// generation, so a late failure can't flag data a newer fetch loaded.
func (c *Collection[T]) SetErrAt(gen Generation, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.err = err
	return true
}

// Reset empties the collection and invalidates in-flight fetches
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = nil
	c.err = nil
}

func (c *Collection[T]) indexOf(id string) int {
	for i, it := range c.items {
		if c.key(it) == id {
			return i
		}
	}
	return -1
}

// dedupe copies items keeping the first occurrence of each id
func dedupe[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
