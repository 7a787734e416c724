package domain

// Coordinate - географическая точка в WGS84.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TransactionRecord - один факт сделки из реестра МОЛИТ.
// После маппинга из ответа API запись не изменяется.
type TransactionRecord struct {
	ID           string // одно из полей sn API или сгенерированный uuid
	BuildingName string // название апарт-комплекса (aptNm)
	DongName     string // законный дон (umdNm или извлечен из jibun)
	Address      string // отображаемый адрес: дорожный либо "дон + jibun"
	RegionCode   string // код сигунгу записи (sggCd), может быть пустым

	Amount    int64   // цена сделки в десятках тысяч вон (만원)
	Area      float64 // исключительная площадь, м²
	Floor     int
	BuildYear int

	DealDate string // YYYYMMDD
	DealType string // 중개거래 / 직거래

	Canceled   bool
	CancelDate string
}

// GroupKey идентифицирует здание внутри результата поиска.
type GroupKey struct {
	DongName     string
	BuildingName string
}

// BuildingGroup - сделки одного здания. Representative - первая увиденная запись.
type BuildingGroup struct {
	Key            GroupKey
	Records        []TransactionRecord
	Representative TransactionRecord
}

// GroupTransactions разбивает список сделок на группы по (дон, здание),
// сохраняя порядок первого появления. Каждая запись попадает ровно в одну группу.
func GroupTransactions(trades []TransactionRecord) []BuildingGroup {
	index := make(map[GroupKey]int, len(trades))
	groups := make([]BuildingGroup, 0, len(trades))

	for _, t := range trades {
		key := GroupKey{DongName: t.DongName, BuildingName: t.BuildingName}
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, BuildingGroup{
				Key:            key,
				Representative: t,
			})
			i = len(groups) - 1
		}
		groups[i].Records = append(groups[i].Records, t)
	}

	return groups
}

// Marker - дескриптор маркера на карте: координата, репрезентативная
// сделка и количество сделок группы (для бейджа "N건").
type Marker struct {
	Coordinate     Coordinate
	Representative TransactionRecord
	Count          int
}

// Bounds - видимый прямоугольник карты в долготе/широте.
type Bounds struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Expand расширяет прямоугольник на frac по каждой оси (0.3 = +30%).
func (b Bounds) Expand(frac float64) Bounds {
	dLng := (b.MaxLng - b.MinLng) * frac
	dLat := (b.MaxLat - b.MinLat) * frac
	return Bounds{
		MinLng: b.MinLng - dLng,
		MinLat: b.MinLat - dLat,
		MaxLng: b.MaxLng + dLng,
		MaxLat: b.MaxLat + dLat,
	}
}

// Contains - инклюзивная проверка: точка на границе считается внутри.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lng >= b.MinLng && c.Lng <= b.MaxLng &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// PlacementMode - как размещать маркеры относительно карты.
type PlacementMode string

const (
	// PlacementFitToResults - карта подгоняется под результаты, фильтра по
	// вьюпорту нет.
	PlacementFitToResults PlacementMode = "fit-to-results"

	// PlacementKeepCurrentView - текущий вид сохраняется, группы вне
	// расширенного вьюпорта отбрасываются.
	PlacementKeepCurrentView PlacementMode = "keep-current-view"
)

// Session - состояние одной страницы поиска: вью-стейт плюс маркеры
// последнего поиска.
type Session struct {
	State   ViewState
	Markers []Marker
}
