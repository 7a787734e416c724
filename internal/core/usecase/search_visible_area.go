package usecase

import (
	"context"
	"sync"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// Лимит регионов в одном поиске по видимой области: защита апстрима от
// веерной нагрузки.
const defaultVisibleRegionLimit = 20

// SearchVisibleAreaUseCase - поиск "что видно на карте": по одному запросу
// на каждый видимый регион параллельно. Ошибка одного региона не валит весь
// поиск - регион просто дает ноль результатов.
type SearchVisibleAreaUseCase struct {
	source      port.TradeSourcePort
	placer      usecases_port.PlaceMarkersUseCase
	regions     port.RegionCatalogPort
	sessions    port.SessionStorePort
	regionLimit int
}

func NewSearchVisibleAreaUseCase(source port.TradeSourcePort, placer usecases_port.PlaceMarkersUseCase,
	regions port.RegionCatalogPort, sessions port.SessionStorePort, regionLimit int) *SearchVisibleAreaUseCase {

	if regionLimit <= 0 {
		regionLimit = defaultVisibleRegionLimit
	}
	return &SearchVisibleAreaUseCase{
		source:      source,
		placer:      placer,
		regions:     regions,
		sessions:    sessions,
		regionLimit: regionLimit,
	}
}

func (uc *SearchVisibleAreaUseCase) Execute(ctx context.Context, req usecases_port.VisibleAreaSearchRequest) (*usecases_port.SearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchVisibleArea",
		"deal_ym":  req.DealYM,
	})
	logger.Info("Use case started", nil)

	// проверка лимита до единого запроса к реестру
	visible := uc.regions.VisibleRegions(req.Viewport)
	if len(visible) == 0 {
		return nil, domain.ErrViewportEmpty
	}
	if len(visible) > uc.regionLimit {
		logger.Warn("Too many visible regions, rejecting search", port.Fields{
			"visible": len(visible),
			"limit":   uc.regionLimit,
		})
		return nil, domain.ErrViewportTooLarge
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uc.sessions.New()
	}
	gen, err := uc.sessions.NextGeneration(sessionID)
	if err != nil {
		return nil, err
	}

	// веерная загрузка; результаты в порядке списка регионов
	perRegion := make([][]domain.TransactionRecord, len(visible))
	var wg sync.WaitGroup
	for i, code := range visible {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			trades, err := uc.source.FetchTrades(ctx, code, req.DealYM)
			if err != nil {
				// деградация: регион со сбоем дает пустой результат
				logger.Warn("Region fetch failed, treating as empty", port.Fields{
					"region_code": code,
					"error":       err.Error(),
				})
				return
			}
			perRegion[i] = trades
		}(i, code)
	}
	wg.Wait()

	var trades []domain.TransactionRecord
	for _, part := range perRegion {
		trades = append(trades, part...)
	}

	baseRegion := visible[0]
	center, ok := uc.regions.RegionCentroid(baseRegion)
	if !ok {
		center = uc.regions.DefaultCenter()
	}

	viewport := req.Viewport
	markers := uc.placer.Execute(ctx, trades, baseRegion,
		domain.PlacementKeepCurrentView, &viewport, center)

	state := domain.NewViewState().WithResults(trades, "")

	committed, err := uc.sessions.CommitSearch(sessionID, gen, domain.Session{
		State:   state,
		Markers: markers,
	})
	if err != nil {
		return nil, err
	}
	if !committed {
		logger.Warn("Search result is stale, newer search already committed", nil)
	}

	logger.Info("Use case finished successfully", port.Fields{
		"regions": len(visible),
		"trades":  len(trades),
		"markers": len(markers),
	})

	return &usecases_port.SearchResult{
		SessionID: sessionID,
		Center:    center,
		Markers:   markers,
		View:      state.Derive(),
		Stale:     !committed,
	}, nil
}
