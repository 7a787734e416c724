package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"

	"github.com/go-chi/chi/v5"
)

const defaultMonthCount = 12

// ReferenceHandler отдает статические справочники для формы поиска.
type ReferenceHandler struct {
	catalog port.RegionCatalogPort
}

func NewReferenceHandler(catalog port.RegionCatalogPort) *ReferenceHandler {
	return &ReferenceHandler{catalog: catalog}
}

// GetRegions обрабатывает GET /api/v1/regions
func (h *ReferenceHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	sidos := h.catalog.Sidos()

	response := make([]SidoResponse, 0, len(sidos))
	for _, sido := range sidos {
		sigungus := h.catalog.Sigungus(sido.Code)
		entry := SidoResponse{
			Code:     sido.Code,
			Name:     sido.Name,
			Sigungus: make([]SigunguResponse, 0, len(sigungus)),
		}
		for _, sg := range sigungus {
			entry.Sigungus = append(entry.Sigungus, SigunguResponse{Code: sg.Code, Name: sg.Name})
		}
		response = append(response, entry)
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetDongs обрабатывает GET /api/v1/regions/{code}/dongs
func (h *ReferenceHandler) GetDongs(w http.ResponseWriter, r *http.Request) {
	regionCode := chi.URLParam(r, "code")

	dongs := h.catalog.DongNames(regionCode)
	if dongs == nil {
		dongs = []string{}
	}

	RespondWithJSON(w, http.StatusOK, dongs)
}

// GetMonths обрабатывает GET /api/v1/months
func (h *ReferenceHandler) GetMonths(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = defaultMonthCount
	}

	RespondWithJSON(w, http.StatusOK, domain.RecentMonths(time.Now(), count))
}

// FindSigunguByDong обрабатывает GET /api/v1/dongs?q=name
func (h *ReferenceHandler) FindSigunguByDong(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindSigunguByDong"})

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteJSONError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	matches := h.catalog.FindSigunguByDong(query)
	logger.Info("Dong reverse lookup finished", port.Fields{
		"query":   query,
		"matches": len(matches),
	})

	RespondWithJSON(w, http.StatusOK, toDongMatchResponses(matches))
}
