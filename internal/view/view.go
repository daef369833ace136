// Package view derives the three asymmetric projections of a game — public,
// private-per-player and agent perception — from canonical state without
// mutating it. Mutating operations and projections must share the same
// exclusion boundary so reads observe consistent snapshots.
package view

import (
	"time"

	"github.com/lox/coupforbots/internal/deck"
	"github.com/lox/coupforbots/internal/game"
)

// PublicPlayer is the information about a seat that every observer may see:
// card count but never card contents.
type PublicPlayer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           game.PlayerKind `json:"kind"`
	Coins          int             `json:"coins"`
	CardCount      int             `json:"card_count"`
	InfluenceCount int             `json:"influence_count"`
	Eliminated     bool            `json:"eliminated"`
}

// PublicState is the spectator view of a game. Pending actions appear with
// their claimed card: claims are announced by design.
type PublicState struct {
	GameID           string              `json:"game_id"`
	Status           game.Status         `json:"status"`
	Phase            game.Phase          `json:"phase"`
	CurrentPlayer    string              `json:"current_player"`
	TurnNumber       int                 `json:"turn_number"`
	Players          []PublicPlayer      `json:"players"`
	DiscardPile      []deck.Card         `json:"discard_pile"`
	History          []game.TurnRecord   `json:"history"`
	PendingAction    *game.PendingAction `json:"pending_action,omitempty"`
	ReactionDeadline time.Time           `json:"reaction_deadline,omitzero"`
	Winner           string              `json:"winner,omitempty"`
}

// Public projects the spectator view.
func Public(g *game.Game) PublicState {
	players := make([]PublicPlayer, len(g.Players))
	for i, p := range g.Players {
		players[i] = PublicPlayer{
			ID:             p.ID,
			Name:           p.Name,
			Kind:           p.Kind,
			Coins:          p.Coins,
			CardCount:      len(p.Hand),
			InfluenceCount: p.InfluenceCount,
			Eliminated:     p.Eliminated,
		}
	}
	var pending *game.PendingAction
	if g.PendingAction != nil {
		pa := *g.PendingAction
		pending = &pa
	}
	return PublicState{
		GameID:           g.ID,
		Status:           g.Status,
		Phase:            g.Phase,
		CurrentPlayer:    g.Current().ID,
		TurnNumber:       g.TurnNumber,
		Players:          players,
		DiscardPile:      append([]deck.Card(nil), g.DiscardPile...),
		History:          append([]game.TurnRecord(nil), g.History...),
		PendingAction:    pending,
		ReactionDeadline: g.ReactionDeadline,
		Winner:           g.Winner,
	}
}

// PrivateState is one player's own view: hand contents plus the moves
// currently legal for them.
type PrivateState struct {
	PlayerID         string            `json:"player_id"`
	Hand             []deck.Card       `json:"hand"`
	AvailableActions []game.ActionKind `json:"available_actions"`
	CanChallenge     bool              `json:"can_challenge"`
	CanBlock         bool              `json:"can_block"`
	BlockCards       []deck.Kind       `json:"block_cards,omitempty"`
}

// Private projects the requesting player's own view. Available actions are
// non-empty only on the player's turn.
func Private(g *game.Game, playerID string) (PrivateState, error) {
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return PrivateState{}, game.ErrUnknownPlayer
	}

	st := PrivateState{
		PlayerID: playerID,
		Hand:     append([]deck.Card(nil), p.Hand...),
	}
	if g.Phase == game.PhaseAction && g.Current().ID == playerID && !p.Eliminated {
		st.AvailableActions = availableActions(p)
	}
	if g.Phase == game.PhaseReaction && g.PendingAction != nil && g.PendingAction.Actor != playerID && !p.Eliminated {
		st.CanChallenge = g.PendingAction.ClaimedCard != ""
		rule := game.Rules[g.PendingAction.Kind]
		if rule.Blockable {
			st.CanBlock = true
			st.BlockCards = append([]deck.Kind(nil), rule.BlockedBy...)
		}
	}
	return st, nil
}

// availableActions lists the actions a player may attempt on their turn.
// Card-claiming actions are always offered since bluffing is legal; the
// forced-coup rule collapses the list once the threshold is reached.
func availableActions(p *game.Player) []game.ActionKind {
	if p.Coins >= game.ForcedCoupThreshold {
		return []game.ActionKind{game.Coup}
	}
	actions := []game.ActionKind{game.Income, game.ForeignAid}
	if p.Coins >= game.CoupCost {
		actions = append(actions, game.Coup)
	}
	if p.Coins >= game.AssassinateCost {
		actions = append(actions, game.Assassinate)
	}
	return append(actions, game.Tax, game.Steal, game.Exchange)
}
