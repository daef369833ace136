// Package server hosts games behind a single-writer boundary: a GameService
// that serializes all mutations per game id over an injected GameStore.
package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/coupforbots/internal/deck"
	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/gameid"
	"github.com/lox/coupforbots/internal/randutil"
	"github.com/lox/coupforbots/internal/view"
)

// GameService exposes the engine's operations keyed by game id. Every
// operation — mutation or projection — for a given game runs under that
// game's mutex, so writers are serialized and readers observe consistent
// snapshots.
type GameService struct {
	store  GameStore
	engine *game.Engine
	clock  quartz.Clock
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ServiceOption configures a GameService.
type ServiceOption func(*GameService)

// WithClock injects the clock shared by the service and its engine.
func WithClock(clock quartz.Clock) ServiceOption {
	return func(s *GameService) { s.clock = clock }
}

// NewGameService creates a service over the given store. The reaction
// window comes from cfg.
func NewGameService(store GameStore, cfg Config, logger *log.Logger, opts ...ServiceOption) *GameService {
	s := &GameService{
		store:  store,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("service"),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = game.NewEngine(logger,
		game.WithClock(s.clock),
		game.WithReactionWindow(cfg.Game.ReactionWindow()))
	return s
}

// lockFor returns the mutex owning the given game id.
func (s *GameService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// withGame runs fn against the loaded game under its lock and saves with a
// version check when fn mutated successfully.
func (s *GameService) withGame(id string, fn func(g *game.Game) error) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	g, err := s.store.Load(id)
	if err != nil {
		return err
	}
	loadedVersion := g.Version
	if err := fn(g); err != nil {
		return err
	}
	if g.Version == loadedVersion {
		return nil // read-only call, nothing to save
	}
	return s.store.Save(g, loadedVersion)
}

// CreateGame creates a new game with a shuffled deck and the host seated,
// returning the game id. A zero seed derives one from the clock. themed may
// carry five template cards from the content-generation collaborator; nil
// uses the default deck.
func (s *GameService) CreateGame(hostID, hostName string, kind game.PlayerKind, seed int64, themed []deck.Card) (string, error) {
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}
	rng := randutil.New(seed)

	d := deck.New(rng)
	if len(themed) > 0 {
		var err error
		d, err = deck.NewThemed(rng, themed)
		if err != nil {
			return "", err
		}
	}

	id := gameid.Generate()
	g := game.NewGame(id, d, hostID, hostName, kind, s.clock.Now())
	if err := s.store.Create(g); err != nil {
		return "", err
	}
	s.logger.Info("game created", "game", id, "host", hostID, "seed", seed)
	return id, nil
}

// JoinGame seats a player in a waiting game.
func (s *GameService) JoinGame(gameID, playerID, name string, kind game.PlayerKind) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.Join(g, playerID, name, kind)
	})
}

// StartGame deals initial hands once enough players have joined.
func (s *GameService) StartGame(gameID string) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.DealInitialHands(g)
	})
}

// SubmitAction submits the current player's action.
func (s *GameService) SubmitAction(gameID, actorID string, kind game.ActionKind, targetID string) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.SubmitAction(g, actorID, kind, targetID)
	})
}

// SubmitChallenge submits a challenge against the pending action.
func (s *GameService) SubmitChallenge(gameID, challengerID string) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.SubmitChallenge(g, challengerID)
	})
}

// SubmitBlock submits a block counter-claim against the pending action.
func (s *GameService) SubmitBlock(gameID, blockerID string, claimedKind deck.Kind) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.SubmitBlock(g, blockerID, claimedKind)
	})
}

// Resolve arbitrates the pending action. Before the reaction deadline it
// fails with game.ErrReactionWindowOpen; the timer collaborator retries
// after the deadline.
func (s *GameService) Resolve(gameID string) error {
	return s.withGame(gameID, func(g *game.Game) error {
		return s.engine.Resolve(g)
	})
}

// PublicState projects the spectator view of a game.
func (s *GameService) PublicState(gameID string) (view.PublicState, error) {
	var st view.PublicState
	err := s.withGame(gameID, func(g *game.Game) error {
		st = view.Public(g)
		return nil
	})
	return st, err
}

// PrivateState projects a player's own view.
func (s *GameService) PrivateState(gameID, playerID string) (view.PrivateState, error) {
	var st view.PrivateState
	err := s.withGame(gameID, func(g *game.Game) error {
		var err error
		st, err = view.Private(g, playerID)
		return err
	})
	return st, err
}

// AgentPerception projects the enriched agent view.
func (s *GameService) AgentPerception(gameID, agentID string) (view.Perception, error) {
	var p view.Perception
	err := s.withGame(gameID, func(g *game.Game) error {
		var err error
		p, err = view.AgentPerception(g, agentID)
		return err
	})
	return p, err
}

// ReactionDeadline reports the pending action's deadline, if any, so timer
// collaborators know when to retry Resolve.
func (s *GameService) ReactionDeadline(gameID string) (time.Time, error) {
	var deadline time.Time
	err := s.withGame(gameID, func(g *game.Game) error {
		deadline = g.ReactionDeadline
		return nil
	})
	return deadline, err
}
