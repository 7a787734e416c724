package port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// GeocoderPort - разрешение адресов в координаты поверх кеша.
// Никогда не возвращает ошибку: все сбои схлопываются в found=false.
type GeocoderPort interface {
	Resolve(ctx context.Context, query string) (domain.Coordinate, bool)

	// BatchResolve дедуплицирует адреса и разрешает их чанками фиксированного
	// размера; адреса, оставшиеся без координаты, в результате отсутствуют.
	BatchResolve(ctx context.Context, addresses []string) map[string]domain.Coordinate
}
