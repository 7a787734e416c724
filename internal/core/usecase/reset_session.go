package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// ResetSessionUseCase - полный сброс: сделки, табы, фильтры и маркеры
// очищаются, карта возвращается к виду по умолчанию. Кеш геокодера при
// этом не трогается.
type ResetSessionUseCase struct {
	sessions port.SessionStorePort
	regions  port.RegionCatalogPort
}

func NewResetSessionUseCase(sessions port.SessionStorePort, regions port.RegionCatalogPort) *ResetSessionUseCase {
	return &ResetSessionUseCase{sessions: sessions, regions: regions}
}

func (uc *ResetSessionUseCase) Execute(ctx context.Context, sessionID string) (*usecases_port.SessionView, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ResetSession",
	})

	sess, err := uc.sessions.Mutate(sessionID, func(s *domain.Session) {
		s.State = s.State.Reset()
		s.Markers = nil
	})
	if err != nil {
		logger.Error("Session store returned an error", err, nil)
		return nil, err
	}

	center := uc.regions.DefaultCenter()
	return &usecases_port.SessionView{
		SessionID: sessionID,
		View:      sess.State.Derive(),
		Markers:   sess.Markers,
		Center:    &center,
	}, nil
}
