package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/coupforbots/internal/deck"
)

func TestResolveBeforeDeadline(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))

	assert.ErrorIs(t, e.Resolve(g), ErrReactionWindowOpen)

	mClock.Advance(DefaultReactionWindow / 2)
	assert.ErrorIs(t, e.Resolve(g), ErrReactionWindowOpen)

	mClock.Advance(DefaultReactionWindow / 2)
	require.NoError(t, e.Resolve(g))
	assert.Equal(t, StartingCoins+3, g.Players[0].Coins)
}

func TestResolveWithoutPendingAction(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)

	err := e.Resolve(g)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))

	// Repeated calls fail identically with no state drift.
	before := g.Version
	err2 := e.Resolve(g)
	assert.Equal(t, err.Error(), err2.Error())
	assert.Equal(t, before, g.Version)
}

func TestCardFreeActionCannotBeChallenged(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)

	require.NoError(t, e.SubmitAction(g, "p1", ForeignAid, ""))
	before := g.Version

	// Foreign aid claims no card, so there is nothing to challenge; the
	// window stays open for blocks only.
	assert.ErrorIs(t, e.SubmitChallenge(g, "p2"), ErrActionNotChallengeable)
	assert.Equal(t, before, g.Version, "rejected challenge must not mutate state")
	assert.Equal(t, PhaseReaction, g.Phase)
	assert.Empty(t, g.Reactions)

	// The game keeps moving: the action resolves once the window closes.
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))
	assert.Equal(t, StartingCoins+2, g.Players[0].Coins)
	assert.Equal(t, PhaseAction, g.Phase)
	assert.Equal(t, 1, g.CurrentPlayer)
}

func TestResolveRejectsCorruptedState(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))
	mClock.Advance(DefaultReactionWindow)

	g.Players[1].InfluenceCount = 5 // diverges from hand size
	before := g.Version

	err := e.Resolve(g)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))

	// The failure must be clean: no history, no rotation, pending intact.
	assert.NotNil(t, g.PendingAction)
	assert.Empty(t, g.History)
	assert.Equal(t, PhaseReaction, g.Phase)
	assert.Equal(t, before, g.Version)
	assert.Equal(t, StartingCoins, g.Players[0].Coins)
}

func TestUnchallengedTaxSucceeds(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Captain, deck.Assassin},
		[]deck.Kind{deck.Duke, deck.Contessa},
	)

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))

	assert.Equal(t, StartingCoins+3, g.Players[0].Coins, "bluffed tax still pays when unchallenged")
	assert.Equal(t, 1, g.CurrentPlayer)
	require.Len(t, g.History, 1)
	assert.Contains(t, g.History[0].Result, "succeeded")
}

func TestChallengeCatchesBluff(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Captain, deck.Assassin}, // no duke: tax is a bluff
		[]deck.Kind{deck.Duke, deck.Contessa},
	)

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))
	require.NoError(t, e.SubmitChallenge(g, "p2"))
	require.NoError(t, e.Resolve(g))

	p1 := g.Players[0]
	assert.Equal(t, StartingCoins, p1.Coins, "voided tax pays nothing")
	assert.Equal(t, 1, p1.InfluenceCount, "bluffer loses an influence")
	assert.Len(t, g.DiscardPile, 1)
	assert.Equal(t, 2, g.Players[1].InfluenceCount, "challenger is untouched")

	require.Len(t, g.Claims, 1)
	assert.True(t, g.Claims[0].Challenged)
	assert.Equal(t, ChallengeSucceeded, g.Claims[0].Result)

	require.Len(t, g.History, 1)
	assert.Contains(t, g.History[0].Result, "caught bluffing")
}

func TestChallengeFailsAgainstHeldCard(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)
	cardsBefore := g.TotalCards()
	revealedID := g.Players[0].Hand[0].ID

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))
	require.NoError(t, e.SubmitChallenge(g, "p2"))
	require.NoError(t, e.Resolve(g))

	p1 := g.Players[0]
	assert.Equal(t, StartingCoins+3, p1.Coins, "verified tax still pays out")
	assert.Equal(t, 2, p1.InfluenceCount, "actor keeps both influence")
	assert.Equal(t, 1, g.Players[1].InfluenceCount, "challenger pays the price")

	// The revealed duke went back to the deck and was replaced by a fresh
	// draw, keeping the hand composition hidden.
	for _, c := range p1.Hand {
		assert.NotEqual(t, revealedID, c.ID, "revealed card must be swapped out")
	}
	assert.Equal(t, cardsBefore, g.TotalCards())

	require.Len(t, g.Claims, 1)
	assert.True(t, g.Claims[0].Challenged)
	assert.Equal(t, ChallengeFailed, g.Claims[0].Result)
}

func TestBlockedAssassinationRefundsCost(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Assassin, deck.Duke},
		[]deck.Kind{deck.Contessa, deck.Captain},
	)
	g.Players[0].Coins = 5

	require.NoError(t, e.SubmitAction(g, "p1", Assassinate, "p2"))
	assert.Equal(t, 2, g.Players[0].Coins, "assassinate cost deducted at submission")

	require.NoError(t, e.SubmitBlock(g, "p2", deck.Contessa))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))

	assert.Equal(t, 5, g.Players[0].Coins, "blocked assassination refunds the cost")
	assert.Equal(t, 2, g.Players[1].InfluenceCount, "target keeps both influence")
	require.Len(t, g.History, 1)
	assert.Contains(t, g.History[0].Result, "blocked")
}

func TestAssassinationSucceedsUnblocked(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Assassin, deck.Duke},
		[]deck.Kind{deck.Contessa, deck.Captain},
	)
	g.Players[0].Coins = 3

	require.NoError(t, e.SubmitAction(g, "p1", Assassinate, "p2"))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))

	assert.Equal(t, 0, g.Players[0].Coins, "cost is not refunded on success")
	assert.Equal(t, 1, g.Players[1].InfluenceCount)
}

func TestChallengeBeatsBlock(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin}, // no captain: steal is a bluff
		[]deck.Kind{deck.Captain, deck.Contessa},
		[]deck.Kind{deck.Ambassador, deck.Duke},
	)

	require.NoError(t, e.SubmitAction(g, "p1", Steal, "p2"))
	require.NoError(t, e.SubmitBlock(g, "p2", deck.Captain))
	require.NoError(t, e.SubmitChallenge(g, "p3"))
	require.NoError(t, e.Resolve(g))

	// The challenge wins arbitration even though the block came first: the
	// actor was bluffing captain, so they lose an influence and the block is
	// never separately arbitrated.
	assert.Equal(t, 1, g.Players[0].InfluenceCount)
	assert.Equal(t, 2, g.Players[1].InfluenceCount)
	assert.Equal(t, StartingCoins, g.Players[1].Coins, "nothing stolen")
	assert.Contains(t, g.History[0].Result, "caught bluffing")
	require.Len(t, g.History[0].Reactions, 2, "both reactions stay in history")
}

func TestStealTransfersAtMostTwo(t *testing.T) {
	tests := []struct {
		name        string
		targetCoins int
		wantStolen  int
	}{
		{"rich target", 5, 2},
		{"one coin", 1, 1},
		{"broke target", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mClock := newTestEngine(t)
			g := riggedGame(
				[]deck.Kind{deck.Captain, deck.Assassin},
				[]deck.Kind{deck.Duke, deck.Contessa},
			)
			g.Players[1].Coins = tt.targetCoins

			require.NoError(t, e.SubmitAction(g, "p1", Steal, "p2"))
			mClock.Advance(DefaultReactionWindow)
			require.NoError(t, e.Resolve(g))

			assert.Equal(t, StartingCoins+tt.wantStolen, g.Players[0].Coins)
			assert.Equal(t, tt.targetCoins-tt.wantStolen, g.Players[1].Coins)
		})
	}
}

func TestExchangeKeepsHandSize(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Ambassador, deck.Assassin},
		[]deck.Kind{deck.Duke, deck.Contessa},
	)
	cardsBefore := g.TotalCards()
	deckBefore := g.Deck.Remaining()

	require.NoError(t, e.SubmitAction(g, "p1", Exchange, ""))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))

	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, deckBefore, g.Deck.Remaining())
	assert.Equal(t, cardsBefore, g.TotalCards())
}

func TestRotationSkipsEliminatedSeats(t *testing.T) {
	e, mClock := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
		[]deck.Kind{deck.Ambassador, deck.Duke},
	)
	p2, _ := g.PlayerByID("p2")
	p2.Hand = nil
	p2.InfluenceCount = 0
	p2.Eliminated = true

	require.NoError(t, e.SubmitAction(g, "p1", Income, ""))
	assert.Equal(t, 2, g.CurrentPlayer, "eliminated seat is skipped")

	require.NoError(t, e.SubmitAction(g, "p3", Tax, ""))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))
	assert.Equal(t, 0, g.CurrentPlayer, "rotation wraps past the eliminated seat")
}

func TestGameEndsWithOneSurvivor(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain},
	)
	g.Players[0].Coins = 7

	require.NoError(t, e.SubmitAction(g, "p1", Coup, "p2"))
	require.NoError(t, e.Resolve(g))

	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, "p1", g.Winner)
	assert.True(t, g.Players[1].Eliminated)

	// A finished game accepts no further input.
	assert.ErrorIs(t, e.SubmitAction(g, "p1", Income, ""), ErrIllegalPhase)
	err := e.Resolve(g)
	assert.True(t, IsInvariant(err), "resolve after the game ends reports an invariant error")
}

func TestCardConservationAcrossGame(t *testing.T) {
	e, mClock := newTestEngine(t)
	d := deck.New(rand.New(rand.NewSource(99)))
	g := NewGame("g1", d, "p1", "Player 1", Human, mClock.Now())
	require.NoError(t, e.Join(g, "p2", "Player 2", Agent))
	require.NoError(t, e.Join(g, "p3", "Player 3", Agent))
	require.NoError(t, e.DealInitialHands(g))

	total := g.TotalCards()
	require.Equal(t, 15, total)

	check := func() {
		require.Equal(t, total, g.TotalCards(), "card conservation broken")
		require.NoError(t, g.checkInvariants())
	}

	// Tax, challenged. Outcome depends on the dealt hand, either way every
	// card stays accounted for.
	require.NoError(t, e.SubmitAction(g, g.Current().ID, Tax, ""))
	challenger := otherAliveID(g, g.Current().ID)
	require.NoError(t, e.SubmitChallenge(g, challenger))
	require.NoError(t, e.Resolve(g))
	check()

	// Exchange, unchallenged.
	require.NoError(t, e.SubmitAction(g, g.Current().ID, Exchange, ""))
	mClock.Advance(DefaultReactionWindow)
	require.NoError(t, e.Resolve(g))
	check()

	// Plain income turns until someone can afford a coup.
	for g.Phase == PhaseAction && g.Current().Coins < CoupCost {
		require.NoError(t, e.SubmitAction(g, g.Current().ID, Income, ""))
		check()
	}
	actor := g.Current()
	require.NoError(t, e.SubmitAction(g, actor.ID, Coup, otherAliveID(g, actor.ID)))
	require.NoError(t, e.Resolve(g))
	check()
}

func TestVersionBumpsOnEveryMutation(t *testing.T) {
	e, _ := newTestEngine(t)
	g := riggedGame(
		[]deck.Kind{deck.Duke, deck.Assassin},
		[]deck.Kind{deck.Captain, deck.Contessa},
	)
	v := g.Version

	require.NoError(t, e.SubmitAction(g, "p1", Tax, ""))
	assert.Equal(t, v+1, g.Version)

	require.NoError(t, e.SubmitChallenge(g, "p2"))
	assert.Equal(t, v+2, g.Version)

	require.NoError(t, e.Resolve(g))
	assert.Equal(t, v+3, g.Version)
}

// otherAliveID returns any alive player other than id.
func otherAliveID(g *Game, id string) string {
	for _, p := range g.alive() {
		if p.ID != id {
			return p.ID
		}
	}
	return ""
}
