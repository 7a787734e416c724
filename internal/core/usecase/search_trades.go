package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// SearchTradesUseCase - поиск по региону: загрузка сделок, фильтр по дону из
// формы, размещение маркеров, запись результата в сессию.
type SearchTradesUseCase struct {
	source   port.TradeSourcePort
	placer   usecases_port.PlaceMarkersUseCase
	regions  port.RegionCatalogPort
	sessions port.SessionStorePort
}

func NewSearchTradesUseCase(source port.TradeSourcePort, placer usecases_port.PlaceMarkersUseCase,
	regions port.RegionCatalogPort, sessions port.SessionStorePort) *SearchTradesUseCase {

	return &SearchTradesUseCase{
		source:   source,
		placer:   placer,
		regions:  regions,
		sessions: sessions,
	}
}

func (uc *SearchTradesUseCase) Execute(ctx context.Context, req usecases_port.SearchRequest) (*usecases_port.SearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "SearchTrades",
		"region_code": req.RegionCode,
		"deal_ym":     req.DealYM,
		"dong":        req.Dong,
	})
	logger.Info("Use case started", nil)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uc.sessions.New()
	}
	gen, err := uc.sessions.NextGeneration(sessionID)
	if err != nil {
		return nil, err
	}

	// загрузка полностью завершается до группировки и геокодинга
	trades, err := uc.source.FetchTrades(ctx, req.RegionCode, req.DealYM)
	if err != nil {
		logger.Error("Trade source returned an error", err, nil)
		return nil, err
	}

	if req.Dong != "" {
		filtered := make([]domain.TransactionRecord, 0, len(trades))
		for _, t := range trades {
			if t.DongName == req.Dong {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}

	center, ok := uc.regions.RegionCentroid(req.RegionCode)
	if !ok {
		center = uc.regions.DefaultCenter()
	}

	markers := uc.placer.Execute(ctx, trades, req.RegionCode,
		domain.PlacementFitToResults, nil, center)

	state := domain.NewViewState().WithResults(trades, req.Dong)

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
