package port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// TradeSourcePort - источник сделок: реестр реальных цен МОЛИТ.
// regionCode - 5-значный код сигунгу, dealYM - "YYYYMM".
// Возвращает domain.FetchError при транспортных проблемах и
// domain.UpstreamError, если сервис сообщил код ошибки; частичные
// результаты в этом случае не возвращаются.
type TradeSourcePort interface {
	FetchTrades(ctx context.Context, regionCode, dealYM string) ([]domain.TransactionRecord, error)
}
