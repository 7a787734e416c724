package usecases_port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// PlaceMarkersUseCase - движок группировки и размещения: сделки -> маркеры.
// base - координата региона от вызывающего, последняя ступень фолбэка.
// viewport обязателен только для режима keep-current-view.
type PlaceMarkersUseCase interface {
	Execute(ctx context.Context, trades []domain.TransactionRecord, regionCode string,
		mode domain.PlacementMode, viewport *domain.Bounds, base domain.Coordinate) []domain.Marker
}
