package cache

import (
	"sync"
	"time"
)

// Item represents a cached item with expiration
type Item struct {
	Value      interface{}
	Expiration int64
}

// Cache is a read-through cache for the catalog lists (products, steps,
// sections, components). Writers must call Invalidate for the key of any
// table they touched; entries otherwise live until their TTL expires.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
}

// Keys for the catalog entries kept here.
const (
	KeyProducts   = "catalog:products"
	KeySteps      = "catalog:steps"
	KeySections   = "catalog:sections"
	KeyComponents = "catalog:components"
)

// New creates a new cache instance
func New() *Cache {
	cache := &Cache{
		items: make(map[string]Item),
	}

	// Start a background goroutine to clean expired items
	go func() {
		for {
			time.Sleep(time.Minute)
			cache.DeleteExpired()
		}
	}()

	return cache
}

// GetOrLoad returns the cached value for key, or runs loader and caches its
// result for the given TTL. Loader errors are returned uncached.
func (c *Cache) GetOrLoad(key string, ttl time.Duration, loader func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := loader()
	if err != nil {
		return nil, err
	}

	c.Set(key, value, ttl)
	return value, nil
}

// Set adds an item to the cache with the given expiration duration
func (c *Cache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(duration).UnixNano()
	c.items[key] = Item{
		Value:      value,
		Expiration: expiration,
	}
}

// Get retrieves an item from the cache
// Returns the item and a boolean indicating if the item was found
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	// Check if the item has expired
	if time.Now().UnixNano() > item.Expiration {
		return nil, false
	}

	return item.Value, true
}

// Invalidate drops the entries for the given keys. Called after any write
// that could change the corresponding catalog.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.items, key)
	}
}

// DeleteExpired removes all expired items from the cache
func (c *Cache) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
		}
	}
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item)
}
