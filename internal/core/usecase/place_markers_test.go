package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGeocoder отдает заранее заданные координаты без кеша и сети.
type fakeGeocoder struct {
	coords map[string]domain.Coordinate
}

func (f *fakeGeocoder) Resolve(ctx context.Context, query string) (domain.Coordinate, bool) {
	coord, ok := f.coords[query]
	return coord, ok
}

func (f *fakeGeocoder) BatchResolve(ctx context.Context, addresses []string) map[string]domain.Coordinate {
	results := make(map[string]domain.Coordinate)
	for _, addr := range addresses {
		if coord, ok := f.coords[addr]; ok {
			results[addr] = coord
		}
	}
	return results
}

// fakeCatalog - справочник регионов на картах в памяти.
type fakeCatalog struct {
	regionCentroids map[string]domain.Coordinate
	dongCentroids   map[string]domain.Coordinate // ключ "код региона/дон"
	visible         []string
	defaultCenter   domain.Coordinate
}

func (f *fakeCatalog) Sidos() []port.SidoEntry                       { return nil }
func (f *fakeCatalog) Sigungus(sidoCode string) []port.RegionEntry   { return nil }
func (f *fakeCatalog) DongNames(regionCode string) []string          { return nil }
func (f *fakeCatalog) FindSigunguByDong(dong string) []port.DongMatch { return nil }

func (f *fakeCatalog) RegionCentroid(regionCode string) (domain.Coordinate, bool) {
	coord, ok := f.regionCentroids[regionCode]
	return coord, ok
}

func (f *fakeCatalog) DongCentroid(regionCode, dongName string) (domain.Coordinate, bool) {
	coord, ok := f.dongCentroids[regionCode+"/"+dongName]
	return coord, ok
}

func (f *fakeCatalog) VisibleRegions(b domain.Bounds) []string { return f.visible }
func (f *fakeCatalog) DefaultCenter() domain.Coordinate        { return f.defaultCenter }

func TestPlaceMarkersFallbackChain(t *testing.T) {
	base := domain.Coordinate{Lat: 37.5666805, Lng: 126.9784147}

	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
	}}
	catalog := &fakeCatalog{
		regionCentroids: map[string]domain.Coordinate{
			"11680": {Lat: 37.517, Lng: 127.047},
		},
		dongCentroids: map[string]domain.Coordinate{
			"11680/역삼동": {Lat: 37.495, Lng: 127.033},
		},
	}

	trades := []domain.TransactionRecord{
		// (a) геокодинг
		{ID: "1", DongName: "삼성동", BuildingName: "아이파크", RegionCode: "11680"},
		// (b) центроид дона
		{ID: "2", DongName: "역삼동", BuildingName: "푸르지오", RegionCode: "11680"},
		// (c) центроид региона
		{ID: "3", DongName: "대치동", BuildingName: "래미안", RegionCode: "11680"},
	}

	uc := NewPlaceMarkersUseCase(geocoder, catalog)
	markers := uc.Execute(context.Background(), trades, "11680",
		domain.PlacementFitToResults, nil, base)

	require.Len(t, markers, 3)

	byID := map[string]domain.Marker{}
	for _, m := range markers {
		byID[m.Representative.ID] = m
	}
	assert.Equal(t, domain.Coordinate{Lat: 37.51, Lng: 127.05}, byID["1"].Coordinate)
	assert.Equal(t, domain.Coordinate{Lat: 37.495, Lng: 127.033}, byID["2"].Coordinate)
	assert.Equal(t, domain.Coordinate{Lat: 37.517, Lng: 127.047}, byID["3"].Coordinate)
}

func TestPlaceMarkersBaseCoordinateLastResort(t *testing.T) {
	base := domain.Coordinate{Lat: 37.5666805, Lng: 126.9784147}

	uc := NewPlaceMarkersUseCase(&fakeGeocoder{}, &fakeCatalog{})
	markers := uc.Execute(context.Background(), []domain.TransactionRecord{
		{ID: "1", DongName: "어디동", BuildingName: "모름"},
	}, "99999", domain.PlacementFitToResults, nil, base)

	require.Len(t, markers, 1)
	assert.Equal(t, base, markers[0].Coordinate)
}

func TestPlaceMarkersDongCentroidUsesRecordRegion(t *testing.T) {
	// код региона записи приоритетнее кода поиска
	catalog := &fakeCatalog{
		dongCentroids: map[string]domain.Coordinate{
			"41135/정자동": {Lat: 37.36, Lng: 127.11},
		},
	}

	uc := NewPlaceMarkersUseCase(&fakeGeocoder{}, catalog)
	markers := uc.Execute(context.Background(), []domain.TransactionRecord{
		{ID: "1", DongName: "정자동", BuildingName: "파크뷰", RegionCode: "41135"},
	}, "11680", domain.PlacementFitToResults, nil, domain.Coordinate{})

	require.Len(t, markers, 1)
	assert.Equal(t, domain.Coordinate{Lat: 37.36, Lng: 127.11}, markers[0].Coordinate)
}

func TestPlaceMarkersGroupCount(t *testing.T) {
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
	}}

	trades := []domain.TransactionRecord{
		{ID: "1", DongName: "삼성동", BuildingName: "아이파크"},
		{ID: "2", DongName: "삼성동", BuildingName: "아이파크"},
		{ID: "3", DongName: "삼성동", BuildingName: "아이파크"},
	}

	uc := NewPlaceMarkersUseCase(geocoder, &fakeCatalog{})
	markers := uc.Execute(context.Background(), trades, "11680",
		domain.PlacementFitToResults, nil, domain.Coordinate{})

	require.Len(t, markers, 1)
	assert.Equal(t, 3, markers[0].Count)
	assert.Equal(t, "1", markers[0].Representative.ID)
}

func TestPlaceMarkersKeepCurrentViewFiltersByExpandedBounds(t *testing.T) {
	viewport := domain.Bounds{MinLng: 127.0, MinLat: 37.0, MaxLng: 128.0, MaxLat: 38.0}

	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"가동 안쪽":   {Lat: 37.5, Lng: 127.5},
		"나동 폭안":   {Lat: 38.2, Lng: 127.5},  // внутри +30% полосы
		"다동 바깥":   {Lat: 39.0, Lng: 127.5},  // за расширенной границей
	}}

	trades := []domain.TransactionRecord{
		{ID: "1", DongName: "가동", BuildingName: "안쪽"},
		{ID: "2", DongName: "나동", BuildingName: "폭안"},
		{ID: "3", DongName: "다동", BuildingName: "바깥"},
	}

	uc := NewPlaceMarkersUseCase(geocoder, &fakeCatalog{})
	markers := uc.Execute(context.Background(), trades, "11680",
		domain.PlacementKeepCurrentView, &viewport, domain.Coordinate{Lat: 37.5, Lng: 127.5})

	ids := make([]string, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.Representative.ID)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestPlaceMarkersFitToResultsKeepsEverything(t *testing.T) {
	// в режиме fit-to-results фильтра по вьюпорту нет
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"다동 바깥": {Lat: 89.0, Lng: 179.0},
	}}

	uc := NewPlaceMarkersUseCase(geocoder, &fakeCatalog{})
	markers := uc.Execute(context.Background(), []domain.TransactionRecord{
		{ID: "1", DongName: "다동", BuildingName: "바깥"},
	}, "11680", domain.PlacementFitToResults, nil, domain.Coordinate{})

	assert.Len(t, markers, 1)
}

func TestPlaceMarkersEmptyInput(t *testing.T) {
	uc := NewPlaceMarkersUseCase(&fakeGeocoder{}, &fakeCatalog{})
	assert.Empty(t, uc.Execute(context.Background(), nil, "11680",
		domain.PlacementFitToResults, nil, domain.Coordinate{}))
}

// защита от гонок при конкурентных вызовах одного юзкейса
func TestPlaceMarkersConcurrentExecute(t *testing.T) {
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinate{
		"삼성동 아이파크": {Lat: 37.51, Lng: 127.05},
	}}
	uc := NewPlaceMarkersUseCase(geocoder, &fakeCatalog{})

	trades := []domain.TransactionRecord{
		{ID: "1", DongName: "삼성동", BuildingName: "아이파크"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			markers := uc.Execute(context.Background(), trades, "11680",
				domain.PlacementFitToResults, nil, domain.Coordinate{})
			assert.Len(t, markers, 1)
		}()
	}
	wg.Wait()
}
