package port

import "apt-trade-map/internal/core/domain"

// SidoEntry - субъект верхнего уровня (시/도).
type SidoEntry struct {
	Code string
	Name string
}

// RegionEntry - сигунгу (시/군/구) внутри сидо.
type RegionEntry struct {
	Code string
	Name string
}

// DongMatch - результат обратного поиска сигунгу по названию дона.
type DongMatch struct {
	SigunguCode string
	SigunguName string
	SidoCode    string
	SidoName    string
	DongName    string
}

// RegionCatalogPort - статические справочники регионов. Только чтение,
// загружаются один раз при старте.
type RegionCatalogPort interface {
	Sidos() []SidoEntry
	Sigungus(sidoCode string) []RegionEntry
	DongNames(regionCode string) []string
	FindSigunguByDong(dongName string) []DongMatch

	RegionCentroid(regionCode string) (domain.Coordinate, bool)
	DongCentroid(regionCode, dongName string) (domain.Coordinate, bool)

	// VisibleRegions - коды сигунгу, чьи центроиды попадают в прямоугольник
	// (границы инклюзивны).
	VisibleRegions(b domain.Bounds) []string

	// DefaultCenter - центр карты по умолчанию (мэрия Сеула).
	DefaultCenter() domain.Coordinate
}
