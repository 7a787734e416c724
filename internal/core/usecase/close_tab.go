package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// CloseTabUseCase - закрытие таба; активный таб откатывается на "all".
type CloseTabUseCase struct {
	sessions port.SessionStorePort
}

func NewCloseTabUseCase(sessions port.SessionStorePort) *CloseTabUseCase {
	return &CloseTabUseCase{sessions: sessions}
}

func (uc *CloseTabUseCase) Execute(ctx context.Context, sessionID, tabKey string) (*usecases_port.SessionView, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CloseTab",
		"tab_key":  tabKey,
	})

	sess, err := uc.sessions.Mutate(sessionID, func(s *domain.Session) {
		s.State = s.State.CloseTab(tabKey)
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
