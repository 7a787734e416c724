package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/contracts"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// SearchHandler обрабатывает поисковые запросы обоих видов.
type SearchHandler struct {
	searchUC      usecases_port.SearchTradesUseCase
	visibleAreaUC usecases_port.SearchVisibleAreaUseCase
}

func NewSearchHandler(searchUC usecases_port.SearchTradesUseCase,
	visibleAreaUC usecases_port.SearchVisibleAreaUseCase) *SearchHandler {
	return &SearchHandler{
		searchUC:      searchUC,
		visibleAreaUC: visibleAreaUC,
	}
}

// Search обрабатывает POST /api/v1/searches.
// Запрос с region_code ищет по региону, без него - по видимой области карты.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Search"})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("Failed to read request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var reqDTO SearchRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode search request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Схема выбирается по виду запроса
	schemaName := "SearchRequest"
	if reqDTO.RegionCode == "" {
		schemaName = "VisibleAreaSearchRequest"
	}
	if err := contracts.ValidateRequest(schemaName, "1.0.0", body); err != nil {
		logger.Warn("Search request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if reqDTO.RegionCode != "" {
		h.searchByRegion(w, r, logger, reqDTO)
		return
	}
	h.searchVisibleArea(w, r, logger, reqDTO)
}

func (h *SearchHandler) searchByRegion(w http.ResponseWriter, r *http.Request,
	logger port.LoggerPort, reqDTO SearchRequestDTO) {

	handlerLogger := logger.WithFields(port.Fields{
		"region_code": reqDTO.RegionCode,
		"dong":        reqDTO.Dong,
		"deal_ym":     reqDTO.DealYM,
	})
	handlerLogger.Info("Processing region search request", nil)

	result, err := h.searchUC.Execute(r.Context(), usecases_port.SearchRequest{
		SessionID:  reqDTO.SessionID,
		RegionCode: reqDTO.RegionCode,
		Dong:       reqDTO.Dong,
		DealYM:     reqDTO.DealYM,
	})
	if err != nil {
		writeSearchError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Region search finished", port.Fields{
		"session_id": result.SessionID,
		"markers":    len(result.Markers),
		"records":    result.View.Stats.Count,
	})
	RespondWithJSON(w, http.StatusOK, toSearchResponse(result))
}

func (h *SearchHandler) searchVisibleArea(w http.ResponseWriter, r *http.Request,
	logger port.LoggerPort, reqDTO SearchRequestDTO) {

	handlerLogger := logger.WithFields(port.Fields{
		"deal_ym": reqDTO.DealYM,
	})
	handlerLogger.Info("Processing visible area search request", nil)

	result, err := h.visibleAreaUC.Execute(r.Context(), usecases_port.VisibleAreaSearchRequest{
		SessionID: reqDTO.SessionID,
		DealYM:    reqDTO.DealYM,
		Viewport:  *reqDTO.Viewport,
	})
	if err != nil {
		writeSearchError(w, handlerLogger, err)
		return
	}

	handlerLogger.Info("Visible area search finished", port.Fields{
		"session_id": result.SessionID,
		"markers":    len(result.Markers),
		"records":    result.View.Stats.Count,
	})
	RespondWithJSON(w, http.StatusOK, toSearchResponse(result))
}

// writeSearchError переводит ошибки поисковых юзкейсов в HTTP-статусы.
func writeSearchError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	var upstreamErr *domain.UpstreamError
	var fetchErr *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrViewportEmpty):
		logger.Warn("No regions in viewport", nil)
		WriteJSONError(w, http.StatusBadRequest, "No regions in the visible area")
	case errors.Is(err, domain.ErrViewportTooLarge):
		logger.Warn("Viewport covers too many regions", nil)
		WriteJSONError(w, http.StatusBadRequest, "Visible area is too large, zoom in")
	case errors.As(err, &upstreamErr):
		logger.Error("Trade registry rejected the request", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Trade registry rejected the request")
	case errors.As(err, &fetchErr):
		logger.Error("Trade registry is unavailable", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Trade registry is unavailable")
	default:
		logger.Error("Search use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Search failed")
	}
}
