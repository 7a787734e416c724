package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"apt-trade-map/internal/adapters/sessions"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port/usecases_port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoulViewport() domain.Bounds {
	return domain.Bounds{MinLng: 126.8, MinLat: 37.4, MaxLng: 127.2, MaxLat: 37.7}
}

func TestSearchVisibleAreaFansOutPerRegion(t *testing.T) {
	source := newFakeTradeSource()
	source.trades["11680"] = []domain.TransactionRecord{
		{ID: "1", DongName: "삼성동", BuildingName: "아이파크"},
	}
	source.trades["11650"] = []domain.TransactionRecord{
		{ID: "2", DongName: "서초동", BuildingName: "래미안"},
	}

	catalog := &fakeCatalog{
		visible: []string{"11680", "11650"},
		regionCentroids: map[string]domain.Coordinate{
			"11680": {Lat: 37.517, Lng: 127.047},
		},
	}
	store := sessions.NewStore()
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
		"서초동 래미안":  {Lat: 37.49, Lng: 127.01},
	}}
	uc := NewSearchVisibleAreaUseCase(source, NewPlaceMarkersUseCase(geocoder, catalog), catalog, store, 20)

	result, err := uc.Execute(context.Background(), usecases_port.VisibleAreaSearchRequest{
		DealYM:   "202401",
		Viewport: seoulViewport(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, source.callCount())
	assert.Equal(t, 2, result.View.Stats.Count)
	assert.Len(t, result.Markers, 2)
	// центр - центроид первого видимого региона
	assert.Equal(t, domain.Coordinate{Lat: 37.517, Lng: 127.047}, result.Center)
}

func TestSearchVisibleAreaEmptyViewport(t *testing.T) {
	source := newFakeTradeSource()
	catalog := &fakeCatalog{}
	uc := NewSearchVisibleAreaUseCase(source, NewPlaceMarkersUseCase(&fakeGeocoder{}, catalog),
		catalog, sessions.NewStore(), 20)

	_, err := uc.Execute(context.Background(), usecases_port.VisibleAreaSearchRequest{
		DealYM:   "202401",
		Viewport: seoulViewport(),
	})
	assert.ErrorIs(t, err, domain.ErrViewportEmpty)
	// до реестра не дошли
	assert.Equal(t, 0, source.callCount())
}

func TestSearchVisibleAreaTooManyRegions(t *testing.T) {
	visible := make([]string, 21)
	for i := range visible {
		visible[i] = fmt.Sprintf("%05d", 11000+i)
	}

	source := newFakeTradeSource()
	catalog := &fakeCatalog{visible: visible}
	uc := NewSearchVisibleAreaUseCase(source, NewPlaceMarkersUseCase(&fakeGeocoder{}, catalog),
		catalog, sessions.NewStore(), 20)

	_, err := uc.Execute(context.Background(), usecases_port.VisibleAreaSearchRequest{
		DealYM:   "202401",
		Viewport: seoulViewport(),
	})
	assert.ErrorIs(t, err, domain.ErrViewportTooLarge)

	// лимит проверяется до единого запроса к реестру
	assert.Equal(t, 0, source.callCount())
}

func TestSearchVisibleAreaRegionErrorDegradesToEmpty(t *testing.T) {
	source := newFakeTradeSource()
	source.trades["11680"] = []domain.TransactionRecord{
		{ID: "1", DongName: "삼성동", BuildingName: "아이파크"},
	}
	source.errs["11650"] = errors.New("region is down")

	catalog := &fakeCatalog{visible: []string{"11680", "11650"}}
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
	}}
	uc := NewSearchVisibleAreaUseCase(source, NewPlaceMarkersUseCase(geocoder, catalog),
		catalog, sessions.NewStore(), 20)

	result, err := uc.Execute(context.Background(), usecases_port.VisibleAreaSearchRequest{
		DealYM:   "202401",
		Viewport: seoulViewport(),
	})
	require.NoError(t, err)

	// сбойный регион дал пустой результат, поиск не упал
	assert.Equal(t, 1, result.View.Stats.Count)
}

func TestSearchVisibleAreaKeepsCurrentView(t *testing.T) {
	source := newFakeTradeSource()
	source.trades["11680"] = []domain.TransactionRecord{
		{ID: "in", DongName: "삼성동", BuildingName: "아이파크"},
		{ID: "out", DongName: "먼동", BuildingName: "저멀리"},
	}

	catalog := &fakeCatalog{visible: []string{"11680"}}
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
		"먼동 저멀리":   {Lat: 35.0, Lng: 129.0}, // далеко за вьюпортом
	}}
	uc := NewSearchVisibleAreaUseCase(source, NewPlaceMarkersUseCase(geocoder, catalog),
		catalog, sessions.NewStore(), 20)

	result, err := uc.Execute(context.Background(), usecases_port.VisibleAreaSearchRequest{
		DealYM:   "202401",
		Viewport: seoulViewport(),
	})
	require.NoError(t, err)

	// маркер вне расширенного вьюпорта отброшен, сделка в списке осталась
	require.Len(t, result.Markers, 1)
	assert.Equal(t, "in", result.Markers[0].Representative.ID)
	assert.Equal(t, 2, result.View.Stats.Count)
}
