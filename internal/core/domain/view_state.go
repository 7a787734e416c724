package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TabAll - неявный таб "전체 목록". Он существует всегда и не хранится в списке табов.
const TabAll = "all"

// Ключи сортировки списка результатов.
type SortKey string

const (
	SortDateDesc  SortKey = "date-desc"
	SortDateAsc   SortKey = "date-asc"
	SortPriceDesc SortKey = "price-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortAreaDesc  SortKey = "area-desc"
	SortAreaAsc   SortKey = "area-asc"
)

// ValidSortKey проверяет, известен ли ключ сортировки.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortDateDesc, SortDateAsc, SortPriceDesc, SortPriceAsc, SortAreaDesc, SortAreaAsc:
		return true
	}
	return false
}

// TabEntry - открытый таб здания. Count - снапшот на момент открытия,
// при смене фильтров не пересчитывается.
type TabEntry struct {
	Key     string
	Name    string
	Address string
	Count   int
}

// TabKey строит ключ таба из названия и адреса здания.
func TabKey(name, address string) string {
	return name + "_" + address
}

// ViewState - полное состояние панели результатов. Все переходы - чистые:
// метод возвращает новое состояние, не трогая исходное. Рендеринг
// происходит отдельной проекцией Derive().
type ViewState struct {
	Trades       []TransactionRecord
	ActiveTab    string // TabAll или ключ таба
	Tabs         []TabEntry
	DongFilter   string
	Sort         SortKey
	SearchedDong string // дон, выбранный в форме поиска (влияет на подпись фильтра)
}

// NewViewState - состояние пустой страницы.
func NewViewState() ViewState {
	return ViewState{
		ActiveTab: TabAll,
		Sort:      SortDateDesc,
	}
}

// WithResults - переход "пришли новые результаты поиска": табы сбрасываются,
// активный таб - "all", фильтр по дону очищается. Ключ сортировки сохраняется.
func (s ViewState) WithResults(trades []TransactionRecord, searchedDong string) ViewState {
	next := s
	next.Trades = trades
	next.ActiveTab = TabAll
	next.Tabs = nil
	next.DongFilter = ""
	next.SearchedDong = searchedDong
	return next
}

// OpenTab - переход "пользователь кликнул по маркеру или карточке".
// Существующий таб просто активируется; новый запоминает текущее число
// сделок здания.
func (s ViewState) OpenTab(name, address string) ViewState {
	key := TabKey(name, address)

	next := s
	for _, tab := range s.Tabs {
		if tab.Key == key {
			next.ActiveTab = key
			return next
		}
	}

	count := 0
	for _, t := range s.Trades {
		if t.BuildingName == name && t.Address == address {
			count++
		}
	}

	next.Tabs = append(append([]TabEntry(nil), s.Tabs...), TabEntry{
		Key:     key,
		Name:    name,
		Address: address,
		Count:   count,
	})
	next.ActiveTab = key
	return next
}

// CloseTab удаляет таб; если он был активным - возврат на "all".
func (s ViewState) CloseTab(key string) ViewState {
	next := s
	next.Tabs = make([]TabEntry, 0, len(s.Tabs))
	for _, tab := range s.Tabs {
		if tab.Key != key {
			next.Tabs = append(next.Tabs, tab)
		}
	}
	if next.ActiveTab == key {
		next.ActiveTab = TabAll
	}
	return next
}

// WithDongFilter меняет фильтр по дону, не трогая табы.
func (s ViewState) WithDongFilter(dong string) ViewState {
	next := s
	next.DongFilter = dong
	return next
}

// WithSort меняет ключ сортировки, не трогая табы.
func (s ViewState) WithSort(key SortKey) ViewState {
	next := s
	next.Sort = key
	return next
}

// Reset - полный сброс страницы.
func (s ViewState) Reset() ViewState {
	return NewViewState()
}

// Stats - агрегаты по текущей отфильтрованной выборке, цены в 만원.
type Stats struct {
	Count    int
	AvgPrice int64
	MaxPrice int64
	MinPrice int64
}

// DongOption - пункт выпадающего фильтра по донам.
type DongOption struct {
	Value string // "" для первого пункта "все"
	Label string
	Count int
}

// DerivedView - проекция состояния для рендеринга: отфильтрованный и
// отсортированный список, табы (включая неявный "all"), статистика и
// пункты фильтра по донам.
type DerivedView struct {
	Records     []TransactionRecord
	ActiveTab   string
	Tabs        []TabEntry
	Stats       Stats
	DongOptions []DongOption
}

// filtered применяет активный таб и фильтр по дону.
func (s ViewState) filtered() []TransactionRecord {
	result := s.Trades

	if s.ActiveTab != TabAll {
		var tab *TabEntry
		for i := range s.Tabs {
			if s.Tabs[i].Key == s.ActiveTab {
				tab = &s.Tabs[i]
				break
			}
		}
		if tab != nil {
			byBuilding := make([]TransactionRecord, 0, len(result))
			for _, t := range result {
				if t.BuildingName == tab.Name && t.Address == tab.Address {
					byBuilding = append(byBuilding, t)
				}
			}
			result = byBuilding
		}
	}

	if s.DongFilter != "" {
		byDong := make([]TransactionRecord, 0, len(result))
		for _, t := range result {
			if t.DongName == s.DongFilter {
				byDong = append(byDong, t)
			}
		}
		result = byDong
	}

	return result
}

// sortRecords сортирует копию списка по ключу. Стабильная сортировка:
// равные элементы сохраняют прежний порядок.
func sortRecords(records []TransactionRecord, key SortKey) []TransactionRecord {
	sorted := append([]TransactionRecord(nil), records...)

	less := func(a, b TransactionRecord) bool { return false }
	switch key {
	case SortDateDesc:
		less = func(a, b TransactionRecord) bool { return a.DealDate > b.DealDate }
	case SortDateAsc:
		less = func(a, b TransactionRecord) bool { return a.DealDate < b.DealDate }
	case SortPriceDesc:
		less = func(a, b TransactionRecord) bool { return a.Amount > b.Amount }
	case SortPriceAsc:
		less = func(a, b TransactionRecord) bool { return a.Amount < b.Amount }
	case SortAreaDesc:
		less = func(a, b TransactionRecord) bool { return a.Area > b.Area }
	case SortAreaAsc:
		less = func(a, b TransactionRecord) bool { return a.Area < b.Area }
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// Derive строит проекцию для рендеринга. Идемпотентна: не меняет состояние.
func (s ViewState) Derive() DerivedView {
	filtered := s.filtered()

	view := DerivedView{
		Records:   sortRecords(filtered, s.Sort),
		ActiveTab: s.ActiveTab,
		Tabs:      append([]TabEntry(nil), s.Tabs...),
	}

	if len(filtered) > 0 {
		stats := Stats{Count: len(filtered)}
		var sum int64
		stats.MaxPrice = filtered[0].Amount
		stats.MinPrice = filtered[0].Amount
		for _, t := range filtered {
			sum += t.Amount
			if t.Amount > stats.MaxPrice {
				stats.MaxPrice = t.Amount
			}
			if t.Amount < stats.MinPrice {
				stats.MinPrice = t.Amount
			}
		}
		stats.AvgPrice = int64(float64(sum)/float64(len(filtered)) + 0.5)
		view.Stats = stats
	}

	view.DongOptions = s.dongOptions()
	return view
}

var koreanCollator = collate.New(language.Korean)

// dongOptions собирает пункты фильтра по всем (не отфильтрованным) сделкам.
// Если при поиске был выбран дон, он становится первым пунктом и
// исключается из общего списка, чтобы не дублироваться.
func (s ViewState) dongOptions() []DongOption {
	counts := make(map[string]int)
	var dongs []string
	for _, t := range s.Trades {
		if t.DongName == "" {
			continue
		}
		if _, seen := counts[t.DongName]; !seen {
			dongs = append(dongs, t.DongName)
		}
		counts[t.DongName]++
	}

	// корейский алфавитный порядок (가나다순)
	sort.SliceStable(dongs, func(i, j int) bool {
		return koreanCollator.CompareString(dongs[i], dongs[j]) < 0
	})

	options := make([]DongOption, 0, len(dongs)+1)
	if s.SearchedDong != "" {
		options = append(options, DongOption{
			Value: "",
			Label: koreanPrinter.Sprintf("%s (%d건)", s.SearchedDong, len(s.Trades)),
			Count: len(s.Trades),
		})
	} else {
		options = append(options, DongOption{
			Value: "",
			Label: koreanPrinter.Sprintf("전체 동 (%d건)", len(s.Trades)),
			Count: len(s.Trades),
		})
	}

	for _, dong := range dongs {
		if dong == s.SearchedDong {
			continue
		}
		options = append(options, DongOption{
			Value: dong,
			Label: koreanPrinter.Sprintf("%s (%d건)", dong, counts[dong]),
			Count: counts[dong],
		})
	}

	return options
}
