package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small in-process LRU with per-entry TTL, used to keep the hot
// catalog pages off the database. Constructed once in main and handed to
// the handlers that need it.
type Cache struct {
	lru *lru.Cache[string, cacheItem]
}

func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lru.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns nil when the key is missing or expired.
func (c *Cache) Get(key string) interface{} {
	item, ok := c.lru.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(item.expiresAt) {
		c.lru.Remove(key)
		return nil
	}
	return item.data
}

func (c *Cache) Delete(key string) {
	c.lru.Remove(key)
}

// Purge empties the cache. Admin mutations call it instead of tracking
// which list pages a change lands on.
func (c *Cache) Purge() {
	c.lru.Purge()
}
