package bot

import (
	"github.com/lox/coupforbots/internal/deck"
	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/view"
)

// HonestAgent never bluffs: it only claims cards it holds, blocks only with
// cards in hand, and challenges actors the perception insights flag as
// suspicious.
type HonestAgent struct {
	name string
}

// NewHonestAgent creates an honest agent.
func NewHonestAgent(name string) *HonestAgent {
	return &HonestAgent{name: name}
}

func (a *HonestAgent) Name() string { return a.name }

func (a *HonestAgent) Act(p view.Perception) Move {
	if p.IsYourTurn && len(p.AvailableActions) > 0 {
		return a.turnMove(p)
	}
	if p.CanReact {
		return a.reactionMove(p)
	}
	return Move{Kind: MovePass}
}

func (a *HonestAgent) turnMove(p view.Perception) Move {
	available := make(map[game.ActionKind]bool, len(p.AvailableActions))
	for _, k := range p.AvailableActions {
		available[k] = true
	}
	target := pickTarget(p)

	// Preference order: mandatory coup, truthful card actions, coup when
	// affordable, then foreign aid. Blockable actions are skipped when an
	// opponent has already claimed the blocking card, since replaying them
	// just hands the blocker a free turn.
	if p.YourCoins >= game.ForcedCoupThreshold && available[game.Coup] && target != "" {
		return Move{Kind: MoveAct, Action: game.Coup, Target: target}
	}
	if available[game.Assassinate] && a.holds(p, deck.Assassin) && target != "" && !claimed(p, target, deck.Contessa) {
		return Move{Kind: MoveAct, Action: game.Assassinate, Target: target}
	}
	if available[game.Coup] && target != "" {
		return Move{Kind: MoveAct, Action: game.Coup, Target: target}
	}
	if available[game.Tax] && a.holds(p, deck.Duke) {
		return Move{Kind: MoveAct, Action: game.Tax}
	}
	if available[game.Steal] && a.holds(p, deck.Captain) && target != "" &&
		!claimed(p, target, deck.Captain) && !claimed(p, target, deck.Ambassador) {
		return Move{Kind: MoveAct, Action: game.Steal, Target: target}
	}
	if available[game.ForeignAid] && !anyOpponentClaimed(p, deck.Duke) {
		return Move{Kind: MoveAct, Action: game.ForeignAid}
	}
	return Move{Kind: MoveAct, Action: game.Income}
}

// claimed reports whether a player has announced a claim to the given card.
func claimed(p view.Perception, playerID string, kind deck.Kind) bool {
	for _, c := range p.Insights.ClaimsMade {
		if c.Player == playerID && c.Card == kind {
			return true
		}
	}
	return false
}

// anyOpponentClaimed reports whether any live opponent claims the card.
func anyOpponentClaimed(p view.Perception, kind deck.Kind) bool {
	for _, o := range p.Opponents {
		if !o.Eliminated && claimed(p, o.ID, kind) {
			return true
		}
	}
	return false
}

func (a *HonestAgent) reactionMove(p view.Perception) Move {
	if p.ReactionOptions.CanBlock {
		for _, k := range p.ReactionOptions.BlockCards {
			if a.holds(p, k) {
				return Move{Kind: MoveBlock, BlockCard: k}
			}
		}
	}
	if p.ReactionOptions.CanChallenge && p.PendingAction != nil {
		for _, s := range p.Insights.SuspiciousBehaviors {
			if s.Player == p.PendingAction.Actor {
				return Move{Kind: MoveChallenge}
			}
		}
	}
	return Move{Kind: MovePass}
}

func (a *HonestAgent) holds(p view.Perception, kind deck.Kind) bool {
	for _, c := range p.YourHand {
		if c.Kind == kind {
			return true
		}
	}
	return false
}
