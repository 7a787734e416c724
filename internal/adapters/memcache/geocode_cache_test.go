package memcache

import (
	"fmt"
	"sync"
	"testing"

	"apt-trade-map/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestCachePutGet(t *testing.T) {
	cache := NewGeocodeCache()

	coord := domain.Coordinate{Lat: 37.51, Lng: 127.05}
	cache.Put("삼성동 아이파크", coord)

	got, resolved, present := cache.Get("삼성동 아이파크")
	assert.True(t, present)
	assert.True(t, resolved)
	assert.Equal(t, coord, got)
}

func TestCacheMiss(t *testing.T) {
	cache := NewGeocodeCache()

	_, resolved, present := cache.Get("없는곳")
	assert.False(t, present)
	assert.False(t, resolved)
}

func TestCacheNegativeEntry(t *testing.T) {
	cache := NewGeocodeCache()
	cache.PutAbsent("없는곳")

	// отсутствие - полноценная запись: present, но не resolved
	_, resolved, present := cache.Get("없는곳")
	assert.True(t, present)
	assert.False(t, resolved)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheExactKeys(t *testing.T) {
	cache := NewGeocodeCache()
	cache.Put("삼성동 아이파크", domain.Coordinate{Lat: 1, Lng: 2})

	// ключи сравниваются как точные строки
	_, _, present := cache.Get("삼성동  아이파크")
	assert.False(t, present)
	_, _, present = cache.Get("삼성동 아이파크 ")
	assert.False(t, present)
}

func TestCacheClear(t *testing.T) {
	cache := NewGeocodeCache()
	cache.Put("a", domain.Coordinate{})
	cache.PutAbsent("b")

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	_, _, present := cache.Get("a")
	assert.False(t, present)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewGeocodeCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("query-%d", i%8)
			cache.Put(key, domain.Coordinate{Lat: float64(i)})
			cache.Get(key)
			cache.Len()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, cache.Len())
}
