package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

//go:embed data/*.json
var dataFS embed.FS

// Точность геохеш-бакетов индекса центроидов: ячейка ~0.35°x0.17°,
// сопоставимо с размером сигунгу.
const cellPrecision = 4

type regionsFile struct {
	Sidos    []port.SidoEntry               `json:"sidos"`
	Sigungus map[string][]port.RegionEntry  `json:"sigungus"`
}

// Catalog - статические справочники регионов: иерархия сидо/сигунгу,
// списки донов, центроиды. Загружается один раз из встроенных таблиц;
// после загрузки только чтение, поэтому без блокировок.
type Catalog struct {
	sidos      []port.SidoEntry
	sigungus   map[string][]port.RegionEntry
	sidoNames  map[string]string
	regionName map[string]string

	regionCoords map[string]domain.Coordinate
	dongCoords   map[string]map[string]domain.Coordinate
	dongNames    map[string][]string

	defaultCenter domain.Coordinate

	// геохеш-бакет -> коды регионов с центроидом в этой ячейке
	buckets map[string][]string
}

var _ port.RegionCatalogPort = (*Catalog)(nil)

func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		sidoNames:  make(map[string]string),
		regionName: make(map[string]string),
		buckets:    make(map[string][]string),
	}

	var regions regionsFile
	if err := loadJSON("data/regions.json", &regions); err != nil {
		return nil, err
	}
	c.sidos = regions.Sidos
	c.sigungus = regions.Sigungus
	for _, sido := range regions.Sidos {
		c.sidoNames[sido.Code] = sido.Name
	}
	for _, list := range regions.Sigungus {
		for _, region := range list {
			c.regionName[region.Code] = region.Name
		}
	}

	coords := make(map[string]domain.Coordinate)
	if err := loadJSON("data/region_coords.json", &coords); err != nil {
		return nil, err
	}
	center, ok := coords["default"]
	if !ok {
		return nil, fmt.Errorf("region coords table has no default center")
	}
	delete(coords, "default")
	c.defaultCenter = center
	c.regionCoords = coords

	if err := loadJSON("data/dong_coords.json", &c.dongCoords); err != nil {
		return nil, err
	}
	if err := loadJSON("data/dongs.json", &c.dongNames); err != nil {
		return nil, err
	}

	// пространственный индекс для VisibleRegions
	for code, coord := range c.regionCoords {
		cell := geohash.EncodeWithPrecision(coord.Lat, coord.Lng, cellPrecision)
		c.buckets[cell] = append(c.buckets[cell], code)
	}

	return c, nil
}

func loadJSON(path string, dest interface{}) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read embedded table %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to parse embedded table %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) Sidos() []port.SidoEntry {
	return append([]port.SidoEntry(nil), c.sidos...)
}

func (c *Catalog) Sigungus(sidoCode string) []port.RegionEntry {
	return append([]port.RegionEntry(nil), c.sigungus[sidoCode]...)
}

func (c *Catalog) DongNames(regionCode string) []string {
	return append([]string(nil), c.dongNames[regionCode]...)
}

// FindSigunguByDong - обратный поиск: в каких сигунгу есть дон с таким
// названием. Совпадение нестрогое в обе стороны, как в форме поиска
// оригинала.
func (c *Catalog) FindSigunguByDong(dongName string) []port.DongMatch {
	if dongName == "" {
		return nil
	}

	var matches []port.DongMatch
	for regionCode, dongs := range c.dongNames {
		for _, dong := range dongs {
			if dong != dongName && !strings.Contains(dong, dongName) && !strings.Contains(dongName, dong) {
				continue
			}
			sidoCode := regionCode[:2]
			matches = append(matches, port.DongMatch{
				SigunguCode: regionCode,
				SigunguName: c.regionName[regionCode],
				SidoCode:    sidoCode,
				SidoName:    c.sidoNames[sidoCode],
				DongName:    dong,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SigunguCode != matches[j].SigunguCode {
			return matches[i].SigunguCode < matches[j].SigunguCode
		}
		return matches[i].DongName < matches[j].DongName
	})
	return matches
}

func (c *Catalog) RegionCentroid(regionCode string) (domain.Coordinate, bool) {
	coord, ok := c.regionCoords[regionCode]
	return coord, ok
}

func (c *Catalog) DongCentroid(regionCode, dongName string) (domain.Coordinate, bool) {
	dongs, ok := c.dongCoords[regionCode]
	if !ok {
		return domain.Coordinate{}, false
	}
	coord, ok := dongs[dongName]
	return coord, ok
}

// VisibleRegions - коды сигунгу с центроидом внутри прямоугольника
// (границы инклюзивны). Кандидаты собираются по геохеш-ячейкам, покрывающим
// прямоугольник, затем проверяются точно.
func (c *Catalog) VisibleRegions(b domain.Bounds) []string {
	if b.MaxLat < b.MinLat || b.MaxLng < b.MinLng {
		return nil
	}

	origin := geohash.BoundingBox(geohash.EncodeWithPrecision(b.MinLat, b.MinLng, cellPrecision))
	latStep := origin.MaxLat - origin.MinLat
	lngStep := origin.MaxLng - origin.MinLng

	var visible []string
	seen := make(map[string]struct{})

	for lat := b.MinLat; lat < b.MaxLat+latStep; lat += latStep {
		for lng := b.MinLng; lng < b.MaxLng+lngStep; lng += lngStep {
			cell := geohash.EncodeWithPrecision(lat, lng, cellPrecision)
			for _, code := range c.buckets[cell] {
				if _, dup := seen[code]; dup {
					continue
				}
				seen[code] = struct{}{}
				if b.Contains(c.regionCoords[code]) {
					visible = append(visible, code)
				}
			}
		}
	}

	sort.Strings(visible)
	return visible
}

func (c *Catalog) DefaultCenter() domain.Coordinate {
	return c.defaultCenter
}
