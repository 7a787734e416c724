package rest

import (
	"math"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// --- Запросы ---

// SearchRequestDTO - тело POST /api/v1/searches. Без region_code запрос
// трактуется как поиск по видимой области (тогда обязателен viewport).
type SearchRequestDTO struct {
	SessionID  string         `json:"session_id,omitempty"`
	RegionCode string         `json:"region_code,omitempty"`
	Dong       string         `json:"dong,omitempty"`
	DealYM     string         `json:"deal_ym"`
	Viewport   *domain.Bounds `json:"viewport,omitempty"`
}

type OpenTabRequestDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type ViewOptionsRequestDTO struct {
	DongFilter *string `json:"dong_filter,omitempty"`
	Sort       *string `json:"sort,omitempty"`
}

// --- Ответы ---

type RecordResponse struct {
	ID           string `json:"id"`
	BuildingName string `json:"building_name"`
	DongName     string `json:"dong_name"`
	Address      string `json:"address"`
	RegionCode   string `json:"region_code,omitempty"`

	Amount       int64  `json:"amount"`
	PriceDisplay string `json:"price_display"`

	// Площадь отсутствует, если исходное значение не распарсилось.
	Area         *float64 `json:"area,omitempty"`
	PyungDisplay string   `json:"pyung_display,omitempty"`

	Floor     int `json:"floor"`
	BuildYear int `json:"build_year"`

	DealDate        string `json:"deal_date"`
	DealDateDisplay string `json:"deal_date_display"`
	DealType        string `json:"deal_type"`

	Canceled   bool   `json:"canceled"`
	CancelDate string `json:"cancel_date,omitempty"`
}

type MarkerResponse struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Label        string  `json:"label"` // короткая цена: "5.2억"
	Count        int     `json:"count"`
	BuildingName string  `json:"building_name"`
	DongName     string  `json:"dong_name"`
	Address      string  `json:"address"`
}

type TabResponse struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Count   int    `json:"count"`
}

type StatsResponse struct {
	Count           int    `json:"count"`
	AvgPrice        int64  `json:"avg_price"`
	MaxPrice        int64  `json:"max_price"`
	MinPrice        int64  `json:"min_price"`
	AvgPriceDisplay string `json:"avg_price_display"`
	MaxPriceDisplay string `json:"max_price_display"`
	MinPriceDisplay string `json:"min_price_display"`
}

type DongOptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ViewResponse struct {
	Records     []RecordResponse     `json:"records"`
	ActiveTab   string               `json:"active_tab"`
	Tabs        []TabResponse        `json:"tabs"`
	Stats       StatsResponse        `json:"stats"`
	DongOptions []DongOptionResponse `json:"dong_options"`
}

type SearchResponse struct {
	SessionID string            `json:"session_id"`
	Center    domain.Coordinate `json:"center"`
	Markers   []MarkerResponse  `json:"markers"`
	View      ViewResponse      `json:"view"`
	Stale     bool              `json:"stale,omitempty"`
}

type SessionResponse struct {
	SessionID string             `json:"session_id"`
	View      ViewResponse       `json:"view"`
	Markers   []MarkerResponse   `json:"markers"`
	Center    *domain.Coordinate `json:"center,omitempty"`
}

type SigunguResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SidoResponse struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Sigungus []SigunguResponse `json:"sigungus"`
}

type DongMatchResponse struct {
	SigunguCode string `json:"sigungu_code"`
	SigunguName string `json:"sigungu_name"`
	SidoCode    string `json:"sido_code"`
	SidoName    string `json:"sido_name"`
	DongName    string `json:"dong_name"`
}

// --- Мапперы домен -> DTO ---

func toRecordResponse(rec domain.TransactionRecord) RecordResponse {
	resp := RecordResponse{
		ID:              rec.ID,
		BuildingName:    rec.BuildingName,
		DongName:        rec.DongName,
		Address:         rec.Address,
		RegionCode:      rec.RegionCode,
		Amount:          rec.Amount,
		PriceDisplay:    domain.FormatPrice(rec.Amount),
		Floor:           rec.Floor,
		BuildYear:       rec.BuildYear,
		DealDate:        rec.DealDate,
		DealDateDisplay: domain.FormatDealDate(rec.DealDate),
		DealType:        rec.DealType,
		Canceled:        rec.Canceled,
		CancelDate:      rec.CancelDate,
	}
	if !math.IsNaN(rec.Area) {
		area := rec.Area
		resp.Area = &area
		resp.PyungDisplay = domain.AreaToPyung(rec.Area)
	}
	return resp
}

func toMarkerResponse(m domain.Marker) MarkerResponse {
	return MarkerResponse{
		Lat:          m.Coordinate.Lat,
		Lng:          m.Coordinate.Lng,
		Label:        domain.FormatPriceShort(m.Representative.Amount),
		Count:        m.Count,
		BuildingName: m.Representative.BuildingName,
		DongName:     m.Representative.DongName,
		Address:      m.Representative.Address,
	}
}

func toViewResponse(view domain.DerivedView) ViewResponse {
	resp := ViewResponse{
		Records:     make([]RecordResponse, len(view.Records)),
		ActiveTab:   view.ActiveTab,
		Tabs:        make([]TabResponse, len(view.Tabs)),
		DongOptions: make([]DongOptionResponse, len(view.DongOptions)),
		Stats: StatsResponse{
			Count:           view.Stats.Count,
			AvgPrice:        view.Stats.AvgPrice,
			MaxPrice:        view.Stats.MaxPrice,
			MinPrice:        view.Stats.MinPrice,
			AvgPriceDisplay: domain.FormatPrice(view.Stats.AvgPrice),
			MaxPriceDisplay: domain.FormatPrice(view.Stats.MaxPrice),
			MinPriceDisplay: domain.FormatPrice(view.Stats.MinPrice),
		},
	}
	for i, rec := range view.Records {
		resp.Records[i] = toRecordResponse(rec)
	}
	for i, tab := range view.Tabs {
		resp.Tabs[i] = TabResponse{Key: tab.Key, Name: tab.Name, Address: tab.Address, Count: tab.Count}
	}
	for i, opt := range view.DongOptions {
		resp.DongOptions[i] = DongOptionResponse{Value: opt.Value, Label: opt.Label, Count: opt.Count}
	}
	return resp
}

func toMarkerResponses(markers []domain.Marker) []MarkerResponse {
	out := make([]MarkerResponse, len(markers))
	for i, m := range markers {
		out[i] = toMarkerResponse(m)
	}
	return out
}

func toSearchResponse(res *usecases_port.SearchResult) SearchResponse {
	return SearchResponse{
		SessionID: res.SessionID,
		Center:    res.Center,
		Markers:   toMarkerResponses(res.Markers),
		View:      toViewResponse(res.View),
		Stale:     res.Stale,
	}
}

func toSessionResponse(sv *usecases_port.SessionView) SessionResponse {
	return SessionResponse{
		SessionID: sv.SessionID,
		View:      toViewResponse(sv.View),
		Markers:   toMarkerResponses(sv.Markers),
		Center:    sv.Center,
	}
}

func toDongMatchResponses(matches []port.DongMatch) []DongMatchResponse {
	out := make([]DongMatchResponse, len(matches))
	for i, m := range matches {
		out[i] = DongMatchResponse{
			SigunguCode: m.SigunguCode,
			SigunguName: m.SigunguName,
			SidoCode:    m.SidoCode,
			SidoName:    m.SidoName,
			DongName:    m.DongName,
		}
	}
	return out
}
