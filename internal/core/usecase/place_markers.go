package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
)

// Коэффициент расширения вьюпорта в режиме keep-current-view: +30% на ось.
const viewportExpandFraction = 0.3

// PlaceMarkersUseCase - движок группировки и размещения. Сделки группируются
// по (дон, здание), каждая группа получает координату через цепочку фолбэков:
// геокодинг -> центроид дона -> центроид региона -> базовая координата.
// Сбои геокодинга пайплайн не прерывают; потерять группу может только фильтр
// по вьюпорту, и только в режиме keep-current-view.
type PlaceMarkersUseCase struct {
	geocoder port.GeocoderPort
	regions  port.RegionCatalogPort
}

func NewPlaceMarkersUseCase(geocoder port.GeocoderPort, regions port.RegionCatalogPort) *PlaceMarkersUseCase {
	return &PlaceMarkersUseCase{geocoder: geocoder, regions: regions}
}

// geocodeQuery - поисковый запрос группы: "дон название-здания".
func geocodeQuery(key domain.GroupKey) string {
	if key.DongName == "" {
		return key.BuildingName
	}
	return key.DongName + " " + key.BuildingName
}

func (uc *PlaceMarkersUseCase) Execute(ctx context.Context, trades []domain.TransactionRecord,
	regionCode string, mode domain.PlacementMode, viewport *domain.Bounds,
	base domain.Coordinate) []domain.Marker {

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "PlaceMarkers",
		"region_code": regionCode,
		"mode":        string(mode),
	})

	groups := domain.GroupTransactions(trades)
	if len(groups) == 0 {
		return nil
	}

	queries := make([]string, 0, len(groups))
	for _, g := range groups {
		queries = append(queries, geocodeQuery(g.Key))
	}
	geocoded := uc.geocoder.BatchResolve(ctx, queries)

	var expanded domain.Bounds
	if mode == domain.PlacementKeepCurrentView && viewport != nil {
		expanded = viewport.Expand(viewportExpandFraction)
	}

	markers := make([]domain.Marker, 0, len(groups))
	fallbacks := 0

	for _, g := range groups {
		coord, ok := geocoded[geocodeQuery(g.Key)]
		if !ok {
			fallbacks++
			coord = uc.fallbackCoordinate(g, regionCode, base)
		}

		if mode == domain.PlacementKeepCurrentView && viewport != nil && !expanded.Contains(coord) {
			continue
		}

		markers = append(markers, domain.Marker{
			Coordinate:     coord,
			Representative: g.Representative,
			Count:          len(g.Records),
		})
	}

	logger.Info("Markers placed", port.Fields{
		"groups":    len(groups),
		"markers":   len(markers),
		"fallbacks": fallbacks,
	})

	return markers
}

// fallbackCoordinate - ступени (b)-(d) цепочки: центроид дона по коду региона
// самой записи (или коду поиска), центроид региона, базовая координата.
func (uc *PlaceMarkersUseCase) fallbackCoordinate(g domain.BuildingGroup,
	regionCode string, base domain.Coordinate) domain.Coordinate {

	dongRegion := g.Representative.RegionCode
	if dongRegion == "" {
		dongRegion = regionCode
	}
	if coord, ok := uc.regions.DongCentroid(dongRegion, g.Key.DongName); ok {
		return coord
	}

	if coord, ok := uc.regions.RegionCentroid(regionCode); ok {
		return coord
	}

	return base
}
