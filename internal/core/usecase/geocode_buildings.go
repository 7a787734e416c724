package usecase

import (
	"context"
	"sync"
	"time"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
)

const (
	// Жесткий таймаут одного геокодинг-запроса. Ответ, не пришедший вовремя,
	// считается отсутствием координаты; ретраев нет.
	defaultLookupTimeout = 1500 * time.Millisecond

	// Размер чанка пакетного разрешения: не больше 10 исходящих запросов
	// одновременно.
	defaultBatchChunkSize = 10
)

// GeocodeService - геокодер поверх инжектируемого кеша. Сбои любого рода
// (сеть, таймаут, пустой или кривой ответ) схлопываются в "координаты нет"
// и кешируются наравне с успехом.
type GeocodeService struct {
	search    port.PlaceSearchPort
	cache     port.GeocodeCachePort
	timeout   time.Duration
	chunkSize int
}

func NewGeocodeService(search port.PlaceSearchPort, cache port.GeocodeCachePort,
	timeout time.Duration, chunkSize int) *GeocodeService {

	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	if chunkSize <= 0 {
		chunkSize = defaultBatchChunkSize
	}
	return &GeocodeService{
		search:    search,
		cache:     cache,
		timeout:   timeout,
		chunkSize: chunkSize,
	}
}

// Resolve разрешает один запрос. Кеш проверяется и пишется только на границах
// вызова: два одинаковых запроса в полете дедупликации не получают.
func (s *GeocodeService) Resolve(ctx context.Context, query string) (domain.Coordinate, bool) {
	if query == "" {
		return domain.Coordinate{}, false
	}

	if coord, resolved, present := s.cache.Get(query); present {
		return coord, resolved
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GeocodeService",
		"query":     query,
	})

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coord, found, err := s.search.Lookup(lookupCtx, query)
	if err != nil || !found {
		if err != nil {
			logger.Debug("Geocode lookup failed, caching absence", port.Fields{"error": err.Error()})
		} else {
			logger.Debug("Geocode lookup returned no result, caching absence", nil)
		}
		s.cache.PutAbsent(query)
		return domain.Coordinate{}, false
	}

	s.cache.Put(query, coord)
	return coord, true
}

// BatchResolve разрешает список адресов. Дедуплицирует, затем идет чанками
// по chunkSize; чанк N+1 стартует строго после того, как чанк N полностью
// завершился (успехом или нет). Неразрешившиеся адреса в карте отсутствуют.
func (s *GeocodeService) BatchResolve(ctx context.Context, addresses []string) map[string]domain.Coordinate {
	unique := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, addr)
	}

	results := make(map[string]domain.Coordinate, len(unique))
	var mu sync.Mutex

	for start := 0; start < len(unique); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]

		var wg sync.WaitGroup
		for _, addr := range chunk {
			wg.Add(1)
			go func(addr string) {
				defer wg.Done()
				if coord, ok := s.Resolve(ctx, addr); ok {
					mu.Lock()
					results[addr] = coord
					mu.Unlock()
				}
			}(addr)
		}
		// барьер: следующий чанк не начинается, пока этот не осел
		wg.Wait()
	}

	return results
}
