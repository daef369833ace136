package game

import (
	"time"

	"github.com/lox/coupforbots/internal/deck"
)

// Phase is the state machine phase. Player input is only accepted in
// PhaseAction and PhaseReaction; PhaseResolution always resolves fully
// before the next action phase.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseAction     Phase = "action"
	PhaseReaction   Phase = "reaction"
	PhaseResolution Phase = "resolution"
	PhaseFinished   Phase = "finished"
)

// Status is the coarse game lifecycle, a projection of Phase for callers
// that only care whether the game has started or ended.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// PendingAction is the action currently awaiting reactions or resolution.
// At most one exists at a time.
type PendingAction struct {
	ID          string     `json:"id"`
	Kind        ActionKind `json:"kind"`
	Actor       string     `json:"actor"`
	Target      string     `json:"target,omitempty"`
	ClaimedCard deck.Kind  `json:"claimed_card,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Reaction is one player's response to a pending action. Each player may
// react at most once per pending action.
type Reaction struct {
	ID          string       `json:"id"`
	Player      string       `json:"player"`
	Kind        ReactionKind `json:"kind"`
	ClaimedCard deck.Kind    `json:"claimed_card,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ChallengeResult records how a challenged claim was arbitrated.
type ChallengeResult string

const (
	// ChallengeSucceeded means the claimant was caught bluffing.
	ChallengeSucceeded ChallengeResult = "succeeded"
	// ChallengeFailed means the claimant held the card.
	ChallengeFailed ChallengeResult = "failed"
)

// Claim is a durable record of a card kind claimed via an action or block.
// Claims feed suspicion analytics only; legality never consults them.
type Claim struct {
	Player      string          `json:"player"`
	ClaimedCard deck.Kind       `json:"claimed_card"`
	Action      ActionKind      `json:"action"`
	Challenged  bool            `json:"challenged"`
	Result      ChallengeResult `json:"result,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// TurnRecord is one resolved turn in the append-only action history.
type TurnRecord struct {
	Turn      int           `json:"turn"`
	Action    PendingAction `json:"action"`
	Reactions []Reaction    `json:"reactions,omitempty"`
	Result    string        `json:"result"`
	Timestamp time.Time     `json:"timestamp"`
}

// Game is the aggregate root owning all canonical state for one game. It is
// mutated exclusively by Engine operations and becomes immutable once a
// winner is set.
type Game struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Phase  Phase  `json:"phase"`

	Players       []*Player `json:"players"`
	CurrentPlayer int       `json:"current_player"`

	Deck        *deck.Deck  `json:"-"`
	DiscardPile []deck.Card `json:"discard_pile"`

	PendingAction    *PendingAction `json:"pending_action,omitempty"`
	Reactions        []Reaction     `json:"reactions,omitempty"`
	ReactionDeadline time.Time      `json:"reaction_deadline,omitzero"`

	Claims  []Claim      `json:"claims"`
	History []TurnRecord `json:"history"`

	TurnNumber int    `json:"turn_number"`
	Winner     string `json:"winner,omitempty"`

	// Version increments on every successful mutation. Persistence callers
	// use it for optimistic concurrency; the engine itself never reads it.
	Version    uint64    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	LastUpdate time.Time `json:"last_update"`
}

// NewGame creates a game in the lobby phase with a dealt deck and a single
// seated host player.
func NewGame(id string, d *deck.Deck, hostID, hostName string, hostKind PlayerKind, now time.Time) *Game {
	return &Game{
		ID:     id,
		Status: StatusWaiting,
		Phase:  PhaseLobby,
		Players: []*Player{
			{ID: hostID, Name: hostName, Kind: hostKind},
		},
		Deck:       d,
		TurnNumber: 1,
		CreatedAt:  now,
		LastUpdate: now,
	}
}

// PlayerByID returns the seated player with the given id.
func (g *Game) PlayerByID(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Current returns the player whose turn it is.
func (g *Game) Current() *Player {
	return g.Players[g.CurrentPlayer]
}

// alive returns the non-eliminated players in seat order.
func (g *Game) alive() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// nextTurn rotates to the next non-eliminated seat and re-enters the action
// phase. If every other seat is eliminated the rotation is a no-op; the game
// should already have ended.
func (g *Game) nextTurn() {
	g.Phase = PhaseAction
	g.TurnNumber++
	for i := 1; i <= len(g.Players); i++ {
		idx := (g.CurrentPlayer + i) % len(g.Players)
		if !g.Players[idx].Eliminated {
			g.CurrentPlayer = idx
			return
		}
	}
}

// loseInfluence removes one influence from p: the first card in hand order
// moves permanently to the discard pile. The tabletop game lets the player
// choose which card; first-in-hand is the engine's documented deterministic
// policy. Reaching zero influence eliminates the seat for good.
func (g *Game) loseInfluence(p *Player) {
	if len(p.Hand) == 0 {
		return
	}
	lost := p.Hand[0]
	p.Hand = append([]deck.Card(nil), p.Hand[1:]...)
	g.DiscardPile = append(g.DiscardPile, lost)
	p.InfluenceCount--
	if p.InfluenceCount == 0 {
		p.Eliminated = true
	}
}

// openClaim finds the unchallenged claim matching a player and action, the
// one arbitration must annotate.
func (g *Game) openClaim(playerID string, action ActionKind) *Claim {
	for i := range g.Claims {
		c := &g.Claims[i]
		if c.Player == playerID && c.Action == action && !c.Challenged {
			return c
		}
	}
	return nil
}

// touch registers a successful mutation.
func (g *Game) touch(now time.Time) {
	g.Version++
	g.LastUpdate = now
}

// TotalCards counts cards across deck, hands and discard pile. The total is
// constant for the life of a game.
func (g *Game) TotalCards() int {
	total := g.Deck.Remaining() + len(g.DiscardPile)
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	return total
}

// checkInvariants verifies per-player consistency between hand size,
// influence count and elimination. A failure means an engine bug.
func (g *Game) checkInvariants() error {
	for _, p := range g.Players {
		if p.InfluenceCount != len(p.Hand) {
			return invariantf("player %s influence count %d != hand size %d", p.ID, p.InfluenceCount, len(p.Hand))
		}
		if p.Eliminated != (p.InfluenceCount == 0) {
			return invariantf("player %s eliminated=%v with influence %d", p.ID, p.Eliminated, p.InfluenceCount)
		}
	}
	return nil
}
