package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/coupforbots/internal/deck"
)

// Engine applies the turn/phase state machine to a Game. It holds no game
// state of its own: every operation is (game, input) -> mutated game or a
// validation error with the game untouched. One Engine can serve any number
// of games, but mutations to a single game must be serialized by the caller.
type Engine struct {
	clock  quartz.Clock
	logger *log.Logger
	window time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the clock used for reaction deadlines. Tests pass a
// quartz mock.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithReactionWindow overrides the reaction window duration.
func WithReactionWindow(d time.Duration) Option {
	return func(e *Engine) { e.window = d }
}

// NewEngine creates an engine with the real clock and default reaction
// window.
func NewEngine(logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("engine"),
		window: DefaultReactionWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Join seats a new player. Legal only in the lobby while seats remain.
func (e *Engine) Join(g *Game, id, name string, kind PlayerKind) error {
	if g.Phase != PhaseLobby {
		return ErrIllegalPhase
	}
	if len(g.Players) >= MaxPlayers {
		return ErrGameFull
	}
	if _, ok := g.PlayerByID(id); ok {
		return ErrAlreadyJoined
	}

	g.Players = append(g.Players, &Player{ID: id, Name: name, Kind: kind})
	g.touch(e.clock.Now())

	e.logger.Debug("player joined", "game", g.ID, "player", id, "seats", len(g.Players))
	return nil
}

// DealInitialHands starts play: two cards and two coins per seat, dealt in
// seat order, then the first seat's action phase opens. Legal once the
// minimum seat count is reached.
func (e *Engine) DealInitialHands(g *Game) error {
	if g.Phase != PhaseLobby {
		return ErrIllegalPhase
	}
	if len(g.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	for _, p := range g.Players {
		p.Hand = g.Deck.DrawN(StartingCards)
		p.InfluenceCount = len(p.Hand)
		p.Coins = StartingCoins
	}
	g.Status = StatusPlaying
	g.Phase = PhaseAction
	g.CurrentPlayer = 0
	g.touch(e.clock.Now())

	e.logger.Debug("initial hands dealt", "game", g.ID, "players", len(g.Players))
	return nil
}

// SubmitAction validates and stages an action by the current player.
// Immediate actions (income) apply inline and rotate the turn. Coup pre-pays
// its cost and moves straight to resolution. Everything else opens a
// reaction window.
func (e *Engine) SubmitAction(g *Game, actorID string, kind ActionKind, targetID string) error {
	rule, ok := Rules[kind]
	if !ok {
		return ErrUnknownAction
	}
	if g.Phase != PhaseAction {
		return ErrIllegalPhase
	}
	actor, ok := g.PlayerByID(actorID)
	if !ok {
		return ErrUnknownPlayer
	}
	if g.Current().ID != actorID {
		return ErrNotYourTurn
	}
	if actor.Eliminated {
		return ErrPlayerEliminated
	}
	if actor.Coins < rule.Cost {
		return ErrInsufficientFunds
	}
	if rule.RequiresTarget && targetID == "" {
		return ErrTargetRequired
	}
	if targetID != "" {
		target, ok := g.PlayerByID(targetID)
		if !ok {
			return ErrInvalidTarget
		}
		if targetID == actorID {
			return ErrSelfTargetForbidden
		}
		if target.Eliminated {
			return ErrTargetEliminated
		}
	}
	if actor.Coins >= ForcedCoupThreshold && kind != Coup {
		return ErrForcedCoup
	}

	now := e.clock.Now()
	pending := PendingAction{
		ID:          fmt.Sprintf("%s_turn%d", g.ID, g.TurnNumber),
		Kind:        kind,
		Actor:       actorID,
		Target:      targetID,
		ClaimedCard: rule.ClaimedCard,
		Timestamp:   now,
	}

	switch {
	case kind == Income:
		// Card-free and unblockable, so there is nothing to react to:
		// apply inline and rotate.
		effects[Income](g, actor, nil)
		g.History = append(g.History, TurnRecord{
			Turn:      g.TurnNumber,
			Action:    pending,
			Result:    fmt.Sprintf("%s took income (+1 coin)", actor.Name),
			Timestamp: now,
		})
		g.nextTurn()

	case kind == Coup:
		// Unblockable and unchallengeable, but the influence loss is
		// applied in resolution. Coins are deducted up front.
		actor.Coins -= rule.Cost
		g.PendingAction = &pending
		g.Reactions = nil
		g.ReactionDeadline = time.Time{}
		g.Phase = PhaseResolution

	default:
		// Pre-pay where the rule table prices the action (assassinate);
		// a block or successful challenge refunds it.
		actor.Coins -= rule.Cost
		g.PendingAction = &pending
		g.Reactions = nil
		g.ReactionDeadline = now.Add(e.window)
		g.Phase = PhaseReaction
		if rule.ClaimedCard != "" {
			g.Claims = append(g.Claims, Claim{
				Player:      actorID,
				ClaimedCard: rule.ClaimedCard,
				Action:      kind,
				Timestamp:   now,
			})
		}
	}

	g.touch(now)
	e.logger.Debug("action submitted",
		"game", g.ID,
		"turn", g.TurnNumber,
		"actor", actorID,
		"action", kind,
		"target", targetID,
		"phase", g.Phase)
	return nil
}

// SubmitChallenge records a challenge against the pending action and
// short-circuits the reaction window: phase moves directly to resolution
// without waiting for further reactions. Only actions carrying a card claim
// can be challenged.
func (e *Engine) SubmitChallenge(g *Game, challengerID string) error {
	if g.Phase != PhaseReaction {
		return ErrIllegalPhase
	}
	if g.PendingAction == nil {
		return invariantf("reaction phase with no pending action")
	}
	challenger, ok := g.PlayerByID(challengerID)
	if !ok || challenger.Eliminated {
		return ErrInvalidChallenger
	}
	if g.PendingAction.ClaimedCard == "" {
		return ErrActionNotChallengeable
	}
	if g.hasReacted(challengerID) {
		return ErrInvalidChallenger
	}

	now := e.clock.Now()
	g.Reactions = append(g.Reactions, Reaction{
		ID:        fmt.Sprintf("%s_r%d", g.PendingAction.ID, len(g.Reactions)+1),
		Player:    challengerID,
		Kind:      Challenge,
		Timestamp: now,
	})
	g.Phase = PhaseResolution
	g.touch(now)

	e.logger.Debug("challenge submitted", "game", g.ID, "challenger", challengerID, "action", g.PendingAction.Kind)
	return nil
}

// SubmitBlock records a block counter-claim against the pending action and
// restarts the reaction window, since the block is itself challengeable.
func (e *Engine) SubmitBlock(g *Game, blockerID string, claimedKind deck.Kind) error {
	if g.Phase != PhaseReaction {
		return ErrIllegalPhase
	}
	if g.PendingAction == nil {
		return invariantf("reaction phase with no pending action")
	}
	blocker, ok := g.PlayerByID(blockerID)
	if !ok {
		return ErrUnknownPlayer
	}
	if blocker.Eliminated {
		return ErrPlayerEliminated
	}
	rule := Rules[g.PendingAction.Kind]
	if !rule.Blockable {
		return ErrActionNotBlockable
	}
	if !rule.CanBlockWith(claimedKind) {
		return ErrInvalidBlockCard
	}
	if g.hasReacted(blockerID) {
		return ErrAlreadyReacted
	}

	now := e.clock.Now()
	g.Reactions = append(g.Reactions, Reaction{
		ID:          fmt.Sprintf("%s_r%d", g.PendingAction.ID, len(g.Reactions)+1),
		Player:      blockerID,
		Kind:        Block,
		ClaimedCard: claimedKind,
		Timestamp:   now,
	})
	g.Claims = append(g.Claims, Claim{
		Player:      blockerID,
		ClaimedCard: claimedKind,
		Action:      g.PendingAction.Kind,
		Timestamp:   now,
	})
	g.ReactionDeadline = now.Add(e.window)
	g.touch(now)

	e.logger.Debug("block submitted", "game", g.ID, "blocker", blockerID, "card", claimedKind, "action", g.PendingAction.Kind)
	return nil
}

// hasReacted reports whether the player already reacted to the current
// pending action.
func (g *Game) hasReacted(playerID string) bool {
	for _, r := range g.Reactions {
		if r.Player == playerID {
			return true
		}
	}
	return false
}
