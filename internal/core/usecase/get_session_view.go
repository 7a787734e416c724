package usecase

import (
	"context"

	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// GetSessionViewUseCase - текущее производное представление сессии.
type GetSessionViewUseCase struct {
	sessions port.SessionStorePort
}

func NewGetSessionViewUseCase(sessions port.SessionStorePort) *GetSessionViewUseCase {
	return &GetSessionViewUseCase{sessions: sessions}
}

func (uc *GetSessionViewUseCase) Execute(ctx context.Context, sessionID string) (*usecases_port.SessionView, error) {
	sess, err := uc.sessions.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}

	return &usecases_port.SessionView{
		SessionID: sessionID,
		View:      sess.State.Derive(),
		Markers:   sess.Markers,
	}, nil
}
