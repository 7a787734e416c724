package port

import (
	"context"

	"apt-trade-map/internal/core/domain"
)

// PlaceSearchPort - сырой сетевой поиск места по свободному тексту.
// found=false - сервис ответил, но ничего не нашел. Ошибка - сетевой сбой
// или невалидный ответ; кеширование и таймауты - забота вызывающего.
type PlaceSearchPort interface {
	Lookup(ctx context.Context, query string) (coord domain.Coordinate, found bool, err error)
}
