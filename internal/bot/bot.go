// Package bot provides automated players that act on the engine's agent
// perception view, plus a runner that drives service-hosted games to
// completion. Bots consume the same projections a remote agent would; they
// never touch canonical state.
package bot

import (
	"github.com/lox/coupforbots/internal/deck"
	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/view"
)

// MoveKind is the category of move an agent returns.
type MoveKind string

const (
	// MoveAct submits an action on the agent's turn.
	MoveAct MoveKind = "act"
	// MoveChallenge challenges the pending action.
	MoveChallenge MoveKind = "challenge"
	// MoveBlock blocks the pending action with a claimed card.
	MoveBlock MoveKind = "block"
	// MovePass declines to react.
	MovePass MoveKind = "pass"
)

// Move is an agent's decision for one perception.
type Move struct {
	Kind      MoveKind
	Action    game.ActionKind // for MoveAct
	Target    string          // for targeted actions
	BlockCard deck.Kind       // for MoveBlock
}

// Agent decides a move from a perception. Implementations must treat the
// perception's insights as advisory: illegal moves are rejected by the
// engine, not the bot.
type Agent interface {
	Act(p view.Perception) Move
	Name() string
}

// pickTarget returns the first non-eliminated opponent, preferring the one
// with the fewest cards so finishing blows land first.
func pickTarget(p view.Perception) string {
	best := ""
	bestCards := -1
	for _, o := range p.Opponents {
		if o.Eliminated {
			continue
		}
		if best == "" || o.CardCount < bestCards {
			best = o.ID
			bestCards = o.CardCount
		}
	}
	return best
}
