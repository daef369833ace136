package game

import (
	"time"

	"github.com/lox/coupforbots/internal/deck"
)

// Game configuration constants.
const (
	StartingCoins       = 2
	StartingCards       = 2
	CoupCost            = 7
	AssassinateCost     = 3
	ForcedCoupThreshold = 10
	MinPlayers          = 2
	MaxPlayers          = 6

	// DefaultReactionWindow is how long non-acting players have to challenge
	// or block before an action may resolve unopposed.
	DefaultReactionWindow = 30 * time.Second
)

// ActionKind identifies one of the seven actions.
type ActionKind string

const (
	Income      ActionKind = "income"
	ForeignAid  ActionKind = "foreign_aid"
	Coup        ActionKind = "coup"
	Tax         ActionKind = "tax"
	Assassinate ActionKind = "assassinate"
	Steal       ActionKind = "steal"
	Exchange    ActionKind = "exchange"
)

// ActionKinds lists every action in canonical order.
var ActionKinds = []ActionKind{Income, ForeignAid, Coup, Tax, Assassinate, Steal, Exchange}

func (a ActionKind) String() string {
	return string(a)
}

// Valid reports whether a is a known action kind.
func (a ActionKind) Valid() bool {
	_, ok := Rules[a]
	return ok
}

// ReactionKind identifies a response to a pending action.
type ReactionKind string

const (
	Challenge ReactionKind = "challenge"
	Block     ReactionKind = "block"
)

// ActionRule is the static rule entry for one action kind. The table drives
// all validation and effect dispatch; there is no per-action special casing
// outside of it beyond the immediate/deferred split in SubmitAction.
type ActionRule struct {
	// ClaimedCard is the role the actor implicitly claims to hold, empty for
	// card-free actions.
	ClaimedCard deck.Kind
	// RequiresTarget marks actions that must name another player.
	RequiresTarget bool
	// Cost in coins, deducted at submission (pre-paid) for coup and
	// assassinate.
	Cost int
	// Blockable actions can be negated by a counter-claim.
	Blockable bool
	// BlockedBy lists the role kinds that may block the action.
	BlockedBy []deck.Kind
}

// Challengeable reports whether the action carries a card claim that can be
// challenged.
func (r ActionRule) Challengeable() bool {
	return r.ClaimedCard != ""
}

// CanBlockWith reports whether kind is an allowed blocker for this action.
func (r ActionRule) CanBlockWith(kind deck.Kind) bool {
	for _, k := range r.BlockedBy {
		if k == kind {
			return true
		}
	}
	return false
}

// Rules is the exhaustive action rule table.
var Rules = map[ActionKind]ActionRule{
	Income:      {},
	ForeignAid:  {Blockable: true, BlockedBy: []deck.Kind{deck.Duke}},
	Coup:        {RequiresTarget: true, Cost: CoupCost},
	Tax:         {ClaimedCard: deck.Duke},
	Assassinate: {ClaimedCard: deck.Assassin, RequiresTarget: true, Cost: AssassinateCost, Blockable: true, BlockedBy: []deck.Kind{deck.Contessa}},
	Steal:       {ClaimedCard: deck.Captain, RequiresTarget: true, Blockable: true, BlockedBy: []deck.Kind{deck.Captain, deck.Ambassador}},
	Exchange:    {ClaimedCard: deck.Ambassador},
}

// effectFunc applies a successful action's coin/card effects. Effects are
// infallible once validation has passed; influence loss routes through
// Game.loseInfluence so elimination stays consistent.
type effectFunc func(g *Game, actor, target *Player)

// effects dispatches per-action effect application, keyed by the same enum as
// Rules. Costs are not deducted here: coup and assassinate pre-pay at
// submission.
var effects = map[ActionKind]effectFunc{
	Income: func(g *Game, actor, _ *Player) {
		actor.Coins++
	},
	ForeignAid: func(g *Game, actor, _ *Player) {
		actor.Coins += 2
	},
	Tax: func(g *Game, actor, _ *Player) {
		actor.Coins += 3
	},
	Steal: func(g *Game, actor, target *Player) {
		stolen := min(2, target.Coins)
		target.Coins -= stolen
		actor.Coins += stolen
	},
	Assassinate: func(g *Game, _, target *Player) {
		g.loseInfluence(target)
	},
	Exchange: func(g *Game, actor, _ *Player) {
		// Draw two and return them unchosen. The tabletop game lets the
		// actor pick which cards to keep; modeling that choice is a known
		// simplification deferred to a future protocol change.
		drawn := g.Deck.DrawN(2)
		if len(drawn) > 0 {
			g.Deck.Return(drawn...)
		}
	},
	Coup: func(g *Game, _, target *Player) {
		g.loseInfluence(target)
	},
}
