package usecases_port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// SessionView - производное представление сессии для рендеринга.
type SessionView struct {
	SessionID string
	View      domain.DerivedView
	Markers   []domain.Marker
	Center    *domain.Coordinate // заполняется при сбросе: куда вернуть карту
}

type OpenTabUseCase interface {
	Execute(ctx context.Context, sessionID, buildingName, address string) (*SessionView, error)
}

type CloseTabUseCase interface {
	Execute(ctx context.Context, sessionID, tabKey string) (*SessionView, error)
}

// ViewOptions - частичное обновление: nil-поле остается как было.
type ViewOptions struct {
	DongFilter *string
	Sort       *domain.SortKey
}

type UpdateViewOptionsUseCase interface {
	Execute(ctx context.Context, sessionID string, opts ViewOptions) (*SessionView, error)
}

type ResetSessionUseCase interface {
	Execute(ctx context.Context, sessionID string) (*SessionView, error)
}

type GetSessionViewUseCase interface {
	Execute(ctx context.Context, sessionID string) (*SessionView, error)
}
