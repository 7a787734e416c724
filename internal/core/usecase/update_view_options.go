package usecase

import (
	"context"

	"apt-trade-map/internal/contextkeys"
	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/port/usecases_port"
)

// UpdateViewOptionsUseCase - смена фильтра по дону и/или сортировки.
// Табы при этом не трогаются.
type UpdateViewOptionsUseCase struct {
	sessions port.SessionStorePort
}

func NewUpdateViewOptionsUseCase(sessions port.SessionStorePort) *UpdateViewOptionsUseCase {
	return &UpdateViewOptionsUseCase{sessions: sessions}
}

func (uc *UpdateViewOptionsUseCase) Execute(ctx context.Context, sessionID string, opts usecases_port.ViewOptions) (*usecases_port.SessionView, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "UpdateViewOptions",
	})

	sess, err := uc.sessions.Mutate(sessionID, func(s *domain.Session) {
		if opts.DongFilter != nil {
			s.State = s.State.WithDongFilter(*opts.DongFilter)
		}
		if opts.Sort != nil {
			s.State = s.State.WithSort(*opts.Sort)
		}
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
