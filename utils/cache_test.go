package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	cache, err := NewCache(4)
	assert.NoError(t, err)

	cache.Set("k", "v", time.Minute)

	assert.Equal(t, "v", cache.Get("k"))
	assert.Nil(t, cache.Get("missing"))
}

func TestCache_ExpiredEntryIsGone(t *testing.T) {
	cache, _ := NewCache(4)

	cache.Set("k", "v", -time.Second)

	assert.Nil(t, cache.Get("k"))
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	cache, _ := NewCache(2)

	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)
	cache.Set("c", 3, time.Minute)

	assert.Nil(t, cache.Get("a"))
	assert.Equal(t, 2, cache.Get("b"))
	assert.Equal(t, 3, cache.Get("c"))
}

func TestCache_Purge(t *testing.T) {
	cache, _ := NewCache(4)

	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)
	cache.Purge()

	assert.Nil(t, cache.Get("a"))
	assert.Nil(t, cache.Get("b"))
}
