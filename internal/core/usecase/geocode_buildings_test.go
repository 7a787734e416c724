package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"apt-trade-map/internal/adapters/memcache"
	"apt-trade-map/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlaceSearch - управляемый PlaceSearchPort со счетчиком вызовов.
type fakePlaceSearch struct {
	mu      sync.Mutex
	calls   map[string]int
	coords  map[string]domain.Coordinate
	err     error
	delay   time.Duration
	current int32
	maxSeen int32
}

func newFakePlaceSearch() *fakePlaceSearch {
	return &fakePlaceSearch{
		calls:  make(map[string]int),
		coords: make(map[string]domain.Coordinate),
	}
}

func (f *fakePlaceSearch) Lookup(ctx context.Context, query string) (domain.Coordinate, bool, error) {
	cur := atomic.AddInt32(&f.current, 1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	atomic.AddInt32(&f.current, -1)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[query]++

	if f.err != nil {
		return domain.Coordinate{}, false, f.err
	}
	coord, ok := f.coords[query]
	return coord, ok, nil
}

func (f *fakePlaceSearch) callCount(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[query]
}

func TestGeocodeResolveCachesResult(t *testing.T) {
	search := newFakePlaceSearch()
	search.coords["삼성동 아이파크"] = domain.Coordinate{Lat: 37.51, Lng: 127.05}
	cache := memcache.NewGeocodeCache()

	svc := NewGeocodeService(search, cache, 0, 0)

	coord, ok := svc.Resolve(context.Background(), "삼성동 아이파크")
	require.True(t, ok)
	assert.Equal(t, domain.Coordinate{Lat: 37.51, Lng: 127.05}, coord)

	// повторный вызов идет из кеша
	coord2, ok2 := svc.Resolve(context.Background(), "삼성동 아이파크")
	assert.True(t, ok2)
	assert.Equal(t, coord, coord2)
	assert.Equal(t, 1, search.callCount("삼성동 아이파크"))
}

func TestGeocodeResolveCachesAbsence(t *testing.T) {
	search := newFakePlaceSearch()
	cache := memcache.NewGeocodeCache()
	svc := NewGeocodeService(search, cache, 0, 0)

	_, ok := svc.Resolve(context.Background(), "없는곳")
	assert.False(t, ok)

	// отсутствие тоже закешировано: апстрим не беспокоим
	_, ok = svc.Resolve(context.Background(), "없는곳")
	assert.False(t, ok)
	assert.Equal(t, 1, search.callCount("없는곳"))
	assert.Equal(t, 1, cache.Len())
}

func TestGeocodeResolveCachesLookupError(t *testing.T) {
	search := newFakePlaceSearch()
	search.err = errors.New("network down")
	cache := memcache.NewGeocodeCache()
	svc := NewGeocodeService(search, cache, 0, 0)

	_, ok := svc.Resolve(context.Background(), "역삼동 푸르지오")
	assert.False(t, ok)

	search.err = nil
	search.coords["역삼동 푸르지오"] = domain.Coordinate{Lat: 37.49, Lng: 127.03}

	// ошибка закешировалась как отсутствие - успешного повтора не будет
	_, ok = svc.Resolve(context.Background(), "역삼동 푸르지오")
	assert.False(t, ok)
	assert.Equal(t, 1, search.callCount("역삼동 푸르지오"))
}

func TestGeocodeResolveEmptyQuery(t *testing.T) {
	search := newFakePlaceSearch()
	svc := NewGeocodeService(search, memcache.NewGeocodeCache(), 0, 0)

	_, ok := svc.Resolve(context.Background(), "")
	assert.False(t, ok)
	assert.Equal(t, 0, search.callCount(""))
}

func TestBatchResolveDeduplicates(t *testing.T) {
	search := newFakePlaceSearch()
	search.coords["삼성동 아이파크"] = domain.Coordinate{Lat: 37.51, Lng: 127.05}
	svc := NewGeocodeService(search, memcache.NewGeocodeCache(), 0, 0)

	results := svc.BatchResolve(context.Background(), []string{
		"삼성동 아이파크", "삼성동 아이파크", "", "삼성동 아이파크",
	})

	require.Len(t, results, 1)
	assert.Equal(t, 1, search.callCount("삼성동 아이파크"))
}

func TestBatchResolveChunkConcurrency(t *testing.T) {
	search := newFakePlaceSearch()
	search.delay = 5 * time.Millisecond

	queries := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		q := fmt.Sprintf("query-%d", i)
		queries = append(queries, q)
		search.coords[q] = domain.Coordinate{Lat: float64(i), Lng: float64(i)}
	}

	svc := NewGeocodeService(search, memcache.NewGeocodeCache(), 0, 10)
	results := svc.BatchResolve(context.Background(), queries)

	assert.Len(t, results, 25)
	// не больше размера чанка запросов в полете
	assert.LessOrEqual(t, atomic.LoadInt32(&search.maxSeen), int32(10))
}

func TestBatchResolveUnresolvedOmitted(t *testing.T) {
	search := newFakePlaceSearch()
	search.coords["있는곳"] = domain.Coordinate{Lat: 37.5, Lng: 127.0}
	svc := NewGeocodeService(search, memcache.NewGeocodeCache(), 0, 0)

	results := svc.BatchResolve(context.Background(), []string{"있는곳", "없는곳"})

	require.Len(t, results, 1)
	_, present := results["없는곳"]
	assert.False(t, present)
}
