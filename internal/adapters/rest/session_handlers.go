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

	"github.com/go-chi/chi/v5"
)

// SessionHandler обслуживает просмотр и мутации вью-стейта сессии.
type SessionHandler struct {
	getViewUC  usecases_port.GetSessionViewUseCase
	openTabUC  usecases_port.OpenTabUseCase
	closeTabUC usecases_port.CloseTabUseCase
	optionsUC  usecases_port.UpdateViewOptionsUseCase
	resetUC    usecases_port.ResetSessionUseCase
}

func NewSessionHandler(getViewUC usecases_port.GetSessionViewUseCase,
	openTabUC usecases_port.OpenTabUseCase,
	closeTabUC usecases_port.CloseTabUseCase,
	optionsUC usecases_port.UpdateViewOptionsUseCase,
	resetUC usecases_port.ResetSessionUseCase) *SessionHandler {
	return &SessionHandler{
		getViewUC:  getViewUC,
		openTabUC:  openTabUC,
		closeTabUC: closeTabUC,
		optionsUC:  optionsUC,
		resetUC:    resetUC,
	}
}

// GetSession обрабатывает GET /api/v1/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetSession"})
	sessionID := chi.URLParam(r, "id")

	view, err := h.getViewUC.Execute(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(view))
}

// OpenTab обрабатывает POST /api/v1/sessions/{id}/tabs
func (h *SessionHandler) OpenTab(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpenTab"})
	sessionID := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := contracts.ValidateRequest("OpenTabRequest", "1.0.0", body); err != nil {
		logger.Warn("Open tab request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reqDTO OpenTabRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"session_id": sessionID,
		"building":   reqDTO.Name,
	})
	handlerLogger.Info("Processing request to open tab", nil)

	view, err := h.openTabUC.Execute(r.Context(), sessionID, reqDTO.Name, reqDTO.Address)
	if err != nil {
		writeSessionError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(view))
}

// CloseTab обрабатывает DELETE /api/v1/sessions/{id}/tabs/{key}
func (h *SessionHandler) CloseTab(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CloseTab"})
	sessionID := chi.URLParam(r, "id")
	tabKey := chi.URLParam(r, "key")

	handlerLogger := logger.WithFields(port.Fields{
		"session_id": sessionID,
		"tab_key":    tabKey,
	})
	handlerLogger.Info("Processing request to close tab", nil)

	view, err := h.closeTabUC.Execute(r.Context(), sessionID, tabKey)
	if err != nil {
		writeSessionError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(view))
}

// UpdateViewOptions обрабатывает PATCH /api/v1/sessions/{id}/view
func (h *SessionHandler) UpdateViewOptions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateViewOptions"})
	sessionID := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := contracts.ValidateRequest("ViewOptionsRequest", "1.0.0", body); err != nil {
		logger.Warn("View options request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reqDTO ViewOptionsRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opts := usecases_port.ViewOptions{DongFilter: reqDTO.DongFilter}
	if reqDTO.Sort != nil {
		sortKey := domain.SortKey(*reqDTO.Sort)
		opts.Sort = &sortKey
	}

	handlerLogger := logger.WithFields(port.Fields{"session_id": sessionID})
	handlerLogger.Info("Processing request to update view options", nil)

	view, err := h.optionsUC.Execute(r.Context(), sessionID, opts)
	if err != nil {
		writeSessionError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(view))
}

// ResetSession обрабатывает DELETE /api/v1/sessions/{id}
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ResetSession"})
	sessionID := chi.URLParam(r, "id")

	handlerLogger := logger.WithFields(port.Fields{"session_id": sessionID})
	handlerLogger.Info("Processing request to reset session", nil)

	view, err := h.resetUC.Execute(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, handlerLogger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSessionResponse(view))
}

func writeSessionError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		logger.Warn("Session not found", nil)
		WriteJSONError(w, http.StatusNotFound, "Session not found")
		return
	}
	logger.Error("Session use case failed", err, nil)
	WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
}
