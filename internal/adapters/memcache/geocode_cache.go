package memcache

import (
	"sync"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
)

type cacheEntry struct {
	coord    domain.Coordinate
	resolved bool // false - закешированное отсутствие координаты
}

// GeocodeCache - процессный кеш "запрос -> координата". В отличие от
// однопоточного браузерного оригинала хендлеры ходят сюда конкурентно,
// поэтому доступ под RWMutex. Живет до Clear или рестарта процесса.
type GeocodeCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

var _ port.GeocodeCachePort = (*GeocodeCache)(nil)

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{entries: make(map[string]cacheEntry)}
}

func (c *GeocodeCache) Get(query string) (domain.Coordinate, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, present := c.entries[query]
	if !present {
		return domain.Coordinate{}, false, false
	}
	return entry.coord, entry.resolved, true
}

func (c *GeocodeCache) Put(query string, coord domain.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = cacheEntry{coord: coord, resolved: true}
}

func (c *GeocodeCache) PutAbsent(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = cacheEntry{resolved: false}
}

func (c *GeocodeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len - количество записей (включая отрицательные); используется в статистике.
func (c *GeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
