package port

import "apt-trade-map/internal/core/domain"

// SessionStorePort - хранилище вью-стейта страниц. Живет в памяти процесса,
// время жизни - сессия страницы.
type SessionStorePort interface {
	// New создает пустую сессию и возвращает ее id.
	New() string

	// NextGeneration выдает номер поколения для начинающегося поиска.
	// Монотонный счетчик на сессию: поздний коммит устаревшего поиска
	// не перезапишет более новый результат.
	NextGeneration(id string) (uint64, error)

	// CommitSearch записывает результат поиска, если gen все еще новейший.
	// Возвращает false для устаревшего поколения.
	CommitSearch(id string, gen uint64, sess domain.Session) (bool, error)

	Snapshot(id string) (domain.Session, error)

	// Mutate атомарно применяет fn к сессии и возвращает новое значение.
	Mutate(id string, fn func(*domain.Session)) (domain.Session, error)
}
