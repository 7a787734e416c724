package port

import "apt-trade-map/internal/core/domain"

// GeocodeCachePort - инжектируемый кеш "запрос -> координата".
// Ключ - точная строка запроса, без нормализации. Отрицательный результат
// кешируется так же, как положительный: повторный запрос по известно
// плохому адресу не ходит в сеть.
type GeocodeCachePort interface {
	// Get: present=false - записи нет вовсе; present=true, resolved=false -
	// закешировано отсутствие координаты.
	Get(query string) (coord domain.Coordinate, resolved bool, present bool)

	Put(query string, coord domain.Coordinate)

	// PutAbsent помечает запрос как не разрешившийся.
	PutAbsent(query string)

	// Clear - единственный способ инвалидации.
	Clear()
}
