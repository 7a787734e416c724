package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// OpenTabUseCase - клик по маркеру или карточке: открыть (или активировать)
// таб здания.
type OpenTabUseCase struct {
	sessions port.SessionStorePort
}

func NewOpenTabUseCase(sessions port.SessionStorePort) *OpenTabUseCase {
	return &OpenTabUseCase{sessions: sessions}
}

func (uc *OpenTabUseCase) Execute(ctx context.Context, sessionID, buildingName, address string) (*usecases_port.SessionView, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "OpenTab",
		"building": buildingName,
	})

	sess, err := uc.sessions.Mutate(sessionID, func(s *domain.Session) {
		s.State = s.State.OpenTab(buildingName, address)
	})
	if err != nil {
		logger.Error("Session store returned an error", err, nil)
		return nil, err
	}

	return &usecases_port.SessionView{
		SessionID: sessionID,
		View:      sess.State.Derive(),
		Markers:   sess.Markers,
	}, nil
}
