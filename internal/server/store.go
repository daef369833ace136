package server

import (
	"errors"
	"sync"

	"github.com/lox/coupforbots/internal/game"
)

var (
	// ErrNotFound is returned when no game exists for an id.
	ErrNotFound = errors.New("game not found")
	// ErrVersionConflict is returned when a save's expected version does
	// not match the stored version, meaning another write won.
	ErrVersionConflict = errors.New("game version conflict")
)

// GameStore abstracts game persistence as a load-by-id / save-with-version
// capability. The engine never sees it: it is injected into the service so
// the persistence mechanism stays an external collaborator.
type GameStore interface {
	// Create stores a new game. Fails if the id is taken.
	Create(g *game.Game) error
	// Load returns the game for an id.
	Load(id string) (*game.Game, error)
	// Save persists a mutated game. expectedVersion is the version the
	// caller loaded; a mismatch with the last saved version fails with
	// ErrVersionConflict and nothing is written.
	Save(g *game.Game, expectedVersion uint64) error
}

// MemoryStore is an in-process GameStore. Loads hand out the live instance,
// so callers must serialize access per game id; the version check still
// enforces the optimistic-concurrency contract for them.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
	saved map[string]uint64 // version at last successful Create/Save
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*game.Game),
		saved: make(map[string]uint64),
	}
}

func (s *MemoryStore) Create(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return errors.New("game id already exists")
	}
	s.games[g.ID] = g
	s.saved[g.ID] = g.Version
	return nil
}

func (s *MemoryStore) Load(id string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *MemoryStore) Save(g *game.Game, expectedVersion uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; !ok {
		return ErrNotFound
	}
	if s.saved[g.ID] != expectedVersion {
		return ErrVersionConflict
	}
	s.games[g.ID] = g
	s.saved[g.ID] = g.Version
	return nil
}
