package game

import "github.com/lox/coupforbots/internal/deck"

// PlayerKind distinguishes human seats from automated agents. The engine
// treats both identically; the distinction only surfaces in projections.
type PlayerKind string

const (
	Human PlayerKind = "human"
	Agent PlayerKind = "agent"
)

// Player is the per-seat mutable state.
type Player struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind PlayerKind `json:"kind"`

	Coins int         `json:"coins"`
	Hand  []deck.Card `json:"hand"`

	// InfluenceCount mirrors len(Hand) at all times. It is stored rather
	// than derived so that serialized snapshots carry it explicitly, and
	// checked by checkInvariants.
	InfluenceCount int `json:"influence_count"`

	// Eliminated is terminal: once true the seat can never act or be
	// targeted again.
	Eliminated bool `json:"eliminated"`
}

// Holds reports whether the player holds at least one card of the given kind.
func (p *Player) Holds(kind deck.Kind) bool {
	for _, c := range p.Hand {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// handIndex returns the position of the first held card of kind, or -1.
func (p *Player) handIndex(kind deck.Kind) int {
	for i, c := range p.Hand {
		if c.Kind == kind {
			return i
		}
	}
	return -1
}
