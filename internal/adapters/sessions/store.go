package sessions

import (
	"sync"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port"

	"github.com/google/uuid"
)

type sessionEntry struct {
	mu        sync.Mutex
	sess      domain.Session
	gen       uint64 // выдано поколений
	committed uint64 // поколение последнего записанного поиска
}

// Store - in-memory хранилище сессий страниц. Каждая сессия несет
// монотонный счетчик поколений поиска: коммит устаревшего поиска
// отбрасывается вместо молчаливой перезаписи более нового результата.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

var _ port.SessionStorePort = (*Store)(nil)

func NewStore() *Store {
	return &Store{entries: make(map[string]*sessionEntry)}
}

func (s *Store) New() string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &sessionEntry{
		sess: domain.Session{State: domain.NewViewState()},
	}
	return id
}

func (s *Store) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

func (s *Store) NextGeneration(id string) (uint64, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.gen++
	return entry.gen, nil
}

func (s *Store) CommitSearch(id string, gen uint64, sess domain.Session) (bool, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return false, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// last-generation-wins: более старый поиск не перезаписывает новый
	if gen < entry.gen || gen <= entry.committed {
		return false, nil
	}

	entry.committed = gen
	entry.sess = sess
	return true, nil
}

func (s *Store) Snapshot(id string) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.sess, nil
}

func (s *Store) Mutate(id string, fn func(*domain.Session)) (domain.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(&entry.sess)
	return entry.sess, nil
}
