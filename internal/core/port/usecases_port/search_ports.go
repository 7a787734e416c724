package usecases_port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// SearchRequest - параметры поиска по региону.
type SearchRequest struct {
	SessionID  string // пустой - создать новую сессию
	RegionCode string
	Dong       string
	DealYM     string
}

// VisibleAreaSearchRequest - параметры поиска "что видно на карте".
type VisibleAreaSearchRequest struct {
	SessionID string
	DealYM    string
	Viewport  domain.Bounds
}

// SearchResult - ответ обоих поисковых юзкейсов.
type SearchResult struct {
	SessionID string
	Center    domain.Coordinate // куда карте следует переместиться
	Markers   []domain.Marker
	View      domain.DerivedView
	Stale     bool // результат устарел, пока шел поиск, и не был записан
}

type SearchTradesUseCase interface {
	Execute(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

type SearchVisibleAreaUseCase interface {
	Execute(ctx context.Context, req VisibleAreaSearchRequest) (*SearchResult, error)
}
