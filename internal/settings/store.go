package settings

import (
	"fmt"
	"sync"

	"inspector/internal/logging"
)

// Store is the observable settings store. All methods are safe for
// concurrent use, but subscribers are called synchronously from Update and
// Subscribe, so a subscriber must not call Update re-entrantly.
type Store struct {
	mu      sync.Mutex
	data    Data
	subs    map[int]func(Data)
	nextID  int
	backend Backend
	logger  *logging.AppLogger
}

// NewStore loads the initial document from backend.
func NewStore(backend Backend, logger *logging.AppLogger) (*Store, error) {
	data, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger.Debug("Settings loaded", "keys", len(data.Settings), "token", PresenceOf(data.Settings).String())

	return &Store{
		data:    data.Clone(),
		subs:    make(map[int]func(Data)),
		backend: backend,
		logger:  logger,
	}, nil
}

// Get returns a snapshot of the current document.
func (s *Store) Get() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Update merges partial into the document, notifies every subscriber and
// then persists. Subscribers have observed the change by the time Update
// returns. A persistence failure is returned but does not roll back the
// in-memory document.
func (s *Store) Update(partial Data) error {
	s.mu.Lock()
	s.data = s.data.merge(partial)
	snapshot := s.data.Clone()
	subs := make([]func(Data), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("Settings updated", "subscribers", len(subs), "token", PresenceOf(snapshot.Settings).String())
	for _, fn := range subs {
		fn(snapshot.Clone())
	}

	if err := s.backend.Save(snapshot); err != nil {
		s.logger.Error("Failed to persist settings", "error", err)
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// Subscribe registers fn, calls it once with the current document and again
// after every Update. The returned function unsubscribes and may be called
// any number of times.
func (s *Store) Subscribe(fn func(Data)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	snapshot := s.data.Clone()
	s.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
