package cacheinfra

import (
	"container/list"
	"sync"

	"go.uber.org/zap"
)

type fifoEntry struct {
	key   string
	value any
}

// FIFOCache is a bounded map with insertion-order eviction.
//
// All operations run under a single mutex, so the size bound holds under concurrent
// use and Clear is never observed half done. Reads do not change eviction order.
type FIFOCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List
	epoch   uint64
	logger  *zap.Logger
}

// NewFIFOCache creates a FIFOCache holding at most maxSize entries.
// A non-positive maxSize is treated as 1.
func NewFIFOCache(maxSize int, logger *zap.Logger) *FIFOCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FIFOCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element, maxSize),
		order:   list.New(),
		logger:  logger,
	}
}

// Get returns the stored value, or false when the key is absent.
func (c *FIFOCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return element.Value.(*fifoEntry).value, true
}

// Put inserts or overwrites key. Overwriting keeps the entry's queue position.
func (c *FIFOCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(key, value)
}

// PutIfEpoch behaves like Put unless Clear ran after epoch was observed.
func (c *FIFOCache) PutIfEpoch(epoch uint64, key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.logger.Debug("cache put skipped, cleared during fetch", zap.String("key", key))
		return false
	}
	c.put(key, value)
	return true
}

// put must be called with c.mu held
func (c *FIFOCache) put(key string, value any) {
	if element, ok := c.items[key]; ok {
		element.Value.(*fifoEntry).value = value
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	c.items[key] = c.order.PushBack(&fifoEntry{key: key, value: value})
	c.logger.Debug("cache put", zap.String("key", key), zap.Int("size", c.order.Len()))
}

// evictOldest must be called with c.mu held
func (c *FIFOCache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	entry := c.order.Remove(front).(*fifoEntry)
	delete(c.items, entry.key)
	c.logger.Debug("cache evict", zap.String("key", entry.key))
}

// ContainsKey reports whether key is present.
func (c *FIFOCache) ContainsKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Clear removes every entry and advances the epoch.
func (c *FIFOCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := c.order.Len()
	c.items = make(map[string]*list.Element, c.maxSize)
	c.order.Init()
	c.epoch++
	c.logger.Debug("cache cleared", zap.Int("dropped", dropped), zap.Uint64("epoch", c.epoch))
}

// Len returns the number of entries.
func (c *FIFOCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Epoch returns the number of Clear calls so far.
func (c *FIFOCache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.epoch
}

// Keys returns the keys in eviction order, oldest first.
func (c *FIFOCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*fifoEntry).key)
	}
	return keys
}

// MaxSize returns the configured bound.
func (c *FIFOCache) MaxSize() int {
	return c.maxSize
}
