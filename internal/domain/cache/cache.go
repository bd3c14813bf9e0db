// Package cache memoises calculation results by request fingerprint.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/pokecalc/internal/domain/calc"
)

const defaultMaxSize = 50000

// Cache maps request fingerprints to calculation results.
type Cache interface {
	// Get returns the result for key and marks it recently used.
	Get(ctx context.Context, key string) (calc.Result, bool)

	// Put stores res under key, evicting the least recently used entry when full.
	Put(ctx context.Context, key string, res calc.Result)

	Size() int64
}

// node is an entry in the recency list; head is the most recently used.
type node struct {
	key        string
	res        calc.Result
	prev, next *node
}

// reset clears the node state for reuse
func (n *node) reset() {
	*n = node{}
}

// inMemoryCache implements Cache with a map and a doubly linked recency list.
// Nodes are recycled through sync.Pool.
type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a new in-memory cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(_ context.Context, key string) (calc.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return calc.Result{}, false
	}
	c.moveToFront(n)
	return n.res, true
}

func (c *inMemoryCache) Put(_ context.Context, key string, res calc.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.res = res
		c.moveToFront(n)
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.res = res
	c.pushFront(n)
	c.entries[key] = n
	c.size.Add(1)
}

// Size returns the current number of entries in the cache.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}

// Must be called with c.mu held.
func (c *inMemoryCache) pushFront(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// Must be called with c.mu held.
func (c *inMemoryCache) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Must be called with c.mu held.
func (c *inMemoryCache) moveToFront(n *node) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// evictLRU drops the tail entry. Must be called with c.mu held.
func (c *inMemoryCache) evictLRU() {
	n := c.tail
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}
