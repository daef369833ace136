package game

import (
	"fmt"
	"time"
)

// Resolve arbitrates the pending action and advances the turn. It is legal
// in the resolution phase, or in the reaction phase once the window has
// elapsed; callers acting as the timer collaborator retry after the
// deadline. Resolution is all-or-nothing: it either fully arbitrates and
// rotates (or ends the game), or fails with no side effects.
//
// Precedence: the first challenge by submission order wins over any block;
// the first block negates the action; otherwise the action succeeds. Later
// reactions of the winning kind stay recorded in history but are never
// separately arbitrated.
func (e *Engine) Resolve(g *Game) error {
	if g.PendingAction == nil {
		return invariantf("resolve called with no pending action")
	}
	now := e.clock.Now()
	switch g.Phase {
	case PhaseResolution:
	case PhaseReaction:
		if now.Before(g.ReactionDeadline) {
			return ErrReactionWindowOpen
		}
	default:
		return ErrIllegalPhase
	}

	pending := g.PendingAction
	actor, ok := g.PlayerByID(pending.Actor)
	if !ok {
		return invariantf("pending action actor %s not in game", pending.Actor)
	}
	if err := g.checkInvariants(); err != nil {
		e.logger.Error("refusing to resolve corrupted game state", "game", g.ID, "error", err)
		return err
	}

	challenge := g.firstReaction(Challenge)
	block := g.firstReaction(Block)
	if challenge != nil && pending.ClaimedCard == "" {
		return invariantf("challenge recorded against card-free action %s", pending.Kind)
	}

	var result string
	switch {
	case challenge != nil:
		result = e.arbitrateChallenge(g, pending, challenge)
	case block != nil:
		blocker, _ := g.PlayerByID(block.Player)
		actor.Coins += Rules[pending.Kind].Cost // refund any pre-paid cost
		result = fmt.Sprintf("%s blocked %s with %s", blocker.Name, pending.Kind, block.ClaimedCard)
	default:
		applyEffect(g, pending)
		result = fmt.Sprintf("%s's %s succeeded", actor.Name, pending.Kind)
	}

	g.History = append(g.History, TurnRecord{
		Turn:      g.TurnNumber,
		Action:    *pending,
		Reactions: g.Reactions,
		Result:    result,
		Timestamp: now,
	})
	g.PendingAction = nil
	g.Reactions = nil
	g.ReactionDeadline = time.Time{}

	if alive := g.alive(); len(alive) == 1 {
		g.Status = StatusFinished
		g.Phase = PhaseFinished
		g.Winner = alive[0].ID
		e.logger.Info("game finished", "game", g.ID, "winner", g.Winner, "turns", g.TurnNumber)
	} else {
		g.nextTurn()
	}

	g.touch(now)

	e.logger.Debug("action resolved", "game", g.ID, "action", pending.Kind, "result", result, "phase", g.Phase)
	return nil
}

// arbitrateChallenge reveals the actor's hand against the claimed card.
// Holding the card costs the challenger an influence and swaps the revealed
// card for a fresh draw so the hand composition stays hidden; bluffing costs
// the actor an influence and voids the action.
func (e *Engine) arbitrateChallenge(g *Game, pending *PendingAction, challenge *Reaction) string {
	actor, _ := g.PlayerByID(pending.Actor)
	challenger, _ := g.PlayerByID(challenge.Player)
	claim := g.openClaim(pending.Actor, pending.Kind)

	if idx := actor.handIndex(pending.ClaimedCard); idx >= 0 {
		// Challenge failed: actor held the card.
		g.loseInfluence(challenger)

		revealed := actor.Hand[idx]
		actor.Hand = append(actor.Hand[:idx:idx], actor.Hand[idx+1:]...)
		g.Deck.Return(revealed)
		replacement, _ := g.Deck.Draw() // deck cannot be empty, a card was just returned
		actor.Hand = append(actor.Hand, replacement)

		if claim != nil {
			claim.Challenged = true
			claim.Result = ChallengeFailed
		}
		applyEffect(g, pending)
		return fmt.Sprintf("%s revealed %s; challenge failed, %s loses influence",
			actor.Name, pending.ClaimedCard, challenger.Name)
	}

	// Challenge succeeded: actor was bluffing. The action is voided and any
	// pre-paid cost refunded.
	g.loseInfluence(actor)
	actor.Coins += Rules[pending.Kind].Cost
	if claim != nil {
		claim.Challenged = true
		claim.Result = ChallengeSucceeded
	}
	return fmt.Sprintf("%s caught bluffing %s and loses influence", actor.Name, pending.ClaimedCard)
}

// applyEffect runs the action's effect from the dispatch table. Effects run
// only here and in the inline income path.
func applyEffect(g *Game, pending *PendingAction) {
	actor, _ := g.PlayerByID(pending.Actor)
	var target *Player
	if pending.Target != "" {
		target, _ = g.PlayerByID(pending.Target)
	}
	effects[pending.Kind](g, actor, target)
}

// firstReaction returns the earliest reaction of the given kind by
// submission order, the only one arbitration considers authoritative.
func (g *Game) firstReaction(kind ReactionKind) *Reaction {
	for i := range g.Reactions {
		if g.Reactions[i].Kind == kind {
			return &g.Reactions[i]
		}
	}
	return nil
}
