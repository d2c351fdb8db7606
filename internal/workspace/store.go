package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-web/internal/goroutine"
)

// Factory создаёт рабочее пространство с заданным id.
type Factory func(id string) (*Workspace, error)

// Store хранит рабочие пространства в памяти. Каждое обращение продлевает
// жизнь записи на ttl; просроченные удаляет фоновая очистка.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*entry
	ttl     time.Duration
	factory Factory

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	ws        *Workspace
	expiresAt time.Time
}

// NewStore создаёт хранилище и запускает очистку.
func NewStore(ttl time.Duration, factory Factory) *Store {
	s := &Store{
		items:   make(map[string]*entry),
		ttl:     ttl,
		factory: factory,
		stop:    make(chan struct{}),
	}

	goroutine.SafeGo(func() { s.cleanup(cleanupInterval(ttl)) })

	return s
}

func cleanupInterval(ttl time.Duration) time.Duration {
	interval := 5 * time.Minute
	if ttl < interval {
		interval = ttl
	}
	return interval
}

// Get возвращает живое пространство и продлевает его.
func (s *Store) Get(id string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		// удалит cleanup
		return nil, false
	}
	e.expiresAt = time.Now().Add(s.ttl)
	return e.ws, true
}

// Create заводит новое пространство со случайным id.
func (s *Store) Create() (*Workspace, error) {
	return s.put(uuid.NewString())
}

// Reset заменяет пространство id новым пустым. Cookie браузера остаётся прежней.
func (s *Store) Reset(id string) (*Workspace, error) {
	return s.put(id)
}

func (s *Store) put(id string) (*Workspace, error) {
	ws, err := s.factory(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	old := s.items[id]
	s.items[id] = &entry{ws: ws, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	if old != nil {
		old.ws.Close()
	}
	return ws, nil
}

// Delete удаляет пространство.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	e := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if e != nil {
		e.ws.Close()
	}
}

// Len число хранимых пространств, включая ещё не убранные просроченные.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close останавливает очистку.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// cleanup периодически удаляет просроченные записи.
func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evict(time.Now())
		}
	}
}

func (s *Store) evict(now time.Time) {
	var expired []*Workspace

	s.mu.Lock()
	for id, e := range s.items {
		if now.After(e.expiresAt) {
			expired = append(expired, e.ws)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range expired {
		ws.Close()
	}
}
