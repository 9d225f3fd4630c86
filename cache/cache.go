// Package cache provides a bounded memoizing cache with FIFO eviction.
// It wraps an expensive function keyed by its string arguments, in the
// manner of a memoizing decorator.
package cache

import (
	"context"
	"strings"
	"sync"
)

// DefaultCapacity is the default maximum number of cached entries.
const DefaultCapacity = 128

// Func is the function type wrapped by a Cache.
type Func[V any] func(ctx context.Context, args ...string) (V, error)

// Cache memoizes the results of a Func. Entries are evicted in strict
// insertion order once the capacity is exceeded; reads do not refresh an
// entry's position.
//
// Concurrent misses for the same key are tolerated rather than prevented:
// the wrapped function runs outside the lock, so two callers racing on a
// cold key both compute. The later store wins the value; the slot keeps
// the insertion position of the earlier store. Callers needing
// single-flight get it from the wrapped function, not from the cache.
type Cache[V any] struct {
	fn       Func[V]
	capacity int
	offset   int
	onHit    func()
	onMiss   func()

	mu      sync.Mutex
	entries map[string]V
	order   []string
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	capacity int
	offset   int
	onHit    func()
	onMiss   func()
}

// WithCapacity sets the maximum number of entries.
// Defaults to DefaultCapacity if not specified.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithArgOffset sets the number of leading arguments excluded from the
// cache key. Excluded arguments are still passed to the wrapped function.
func WithArgOffset(n int) Option {
	return func(c *config) {
		c.offset = n
	}
}

// WithEvents registers callbacks invoked on cache hits and misses.
// Either may be nil.
func WithEvents(onHit, onMiss func()) Option {
	return func(c *config) {
		c.onHit = onHit
		c.onMiss = onMiss
	}
}

// New creates a Cache wrapping fn.
func New[V any](fn Func[V], opts ...Option) *Cache[V] {
	cfg := config{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity < 1 {
		cfg.capacity = 1
	}
	return &Cache[V]{
		fn:       fn,
		capacity: cfg.capacity,
		offset:   cfg.offset,
		onHit:    cfg.onHit,
		onMiss:   cfg.onMiss,
		entries:  make(map[string]V),
	}
}

// Get returns the cached value for the key derived from args, computing
// and storing it on a miss. Errors from the wrapped function are returned
// without being cached.
func (c *Cache[V]) Get(ctx context.Context, args ...string) (V, error) {
	key := c.key(args)

	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		if c.onHit != nil {
			c.onHit()
		}
		return v, nil
	}
	c.mu.Unlock()

	if c.onMiss != nil {
		c.onMiss()
	}

	v, err := c.fn(ctx, args...)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = v
	if len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.mu.Unlock()

	return v, nil
}

// Reset discards all cached entries.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]V)
	c.order = nil
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) key(args []string) string {
	if c.offset >= len(args) {
		return ""
	}
	return strings.Join(args[c.offset:], ":")
}
