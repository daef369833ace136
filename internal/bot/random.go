package bot

import (
	"math/rand"

	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/view"
)

// RandomAgent plays uniformly over its available actions and reacts with
// fixed probabilities. It bluffs freely: card-claiming actions are chosen
// without checking its hand.
type RandomAgent struct {
	name string
	rng  *rand.Rand
}

// NewRandomAgent creates a random agent with the given rng.
func NewRandomAgent(name string, rng *rand.Rand) *RandomAgent {
	return &RandomAgent{name: name, rng: rng}
}

func (a *RandomAgent) Name() string { return a.name }

func (a *RandomAgent) Act(p view.Perception) Move {
	if p.IsYourTurn && len(p.AvailableActions) > 0 {
		kind := p.AvailableActions[a.rng.Intn(len(p.AvailableActions))]
		mv := Move{Kind: MoveAct, Action: kind}
		if game.Rules[kind].RequiresTarget {
			mv.Target = pickTarget(p)
			if mv.Target == "" {
				mv = Move{Kind: MoveAct, Action: game.Income}
			}
		}
		return mv
	}

	if p.CanReact {
		roll := a.rng.Float64()
		switch {
		case p.ReactionOptions.CanChallenge && roll < 0.2:
			return Move{Kind: MoveChallenge}
		case p.ReactionOptions.CanBlock && roll < 0.4:
			cards := p.ReactionOptions.BlockCards
			return Move{Kind: MoveBlock, BlockCard: cards[a.rng.Intn(len(cards))]}
		}
	}
	return Move{Kind: MovePass}
}
