package view

import (
	"fmt"
	"time"

	"github.com/lox/coupforbots/internal/deck"
	"github.com/lox/coupforbots/internal/game"
)

// Opponent summarizes another seat from an agent's point of view.
type Opponent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Coins      int    `json:"coins"`
	CardCount  int    `json:"card_count"`
	Influence  int    `json:"influence"`
	Eliminated bool   `json:"eliminated"`
}

// ClaimSummary is a normalized claim for agent consumption. Verified is true
// only when a challenge against the claim failed, proving the card was held
// at the time.
type ClaimSummary struct {
	Player   string          `json:"player"`
	Card     deck.Kind       `json:"card"`
	Action   game.ActionKind `json:"action"`
	Verified bool            `json:"verified"`
}

// Suspicion flags behavior worth an agent's attention. Advisory only.
type Suspicion struct {
	Player string `json:"player"`
	Reason string `json:"reason"`
}

// ReactionOptions describes how the agent may respond to the pending action.
type ReactionOptions struct {
	CanChallenge bool        `json:"can_challenge"`
	CanBlock     bool        `json:"can_block"`
	BlockCards   []deck.Kind `json:"block_cards,omitempty"`
}

// Insights carries the derived analytics attached to an agent's perception.
// Everything here is heuristic advisory text, never a legality check.
type Insights struct {
	ClaimsMade          []ClaimSummary `json:"claims_made"`
	SuspiciousBehaviors []Suspicion    `json:"suspicious_behaviors"`
	Recommendations     []string       `json:"recommendations"`
}

// Perception is the enriched view served to automated players: the agent's
// private state, a public summary, and heuristic insights.
type Perception struct {
	GameID   string `json:"game_id"`
	YourID   string `json:"your_id"`
	YourName string `json:"your_name"`

	YourHand      []deck.Card `json:"your_hand"`
	YourCoins     int         `json:"your_coins"`
	YourInfluence int         `json:"your_influence"`

	CurrentPlayer string     `json:"current_player"`
	IsYourTurn    bool       `json:"is_your_turn"`
	Phase         game.Phase `json:"phase"`
	TurnNumber    int        `json:"turn_number"`

	Opponents []Opponent `json:"opponents"`

	PendingAction *game.PendingAction `json:"pending_action,omitempty"`

	AvailableActions []game.ActionKind `json:"available_actions"`
	CanReact         bool              `json:"can_react"`
	ReactionOptions  ReactionOptions   `json:"reaction_options"`

	Insights Insights `json:"insights"`

	ReactionDeadline time.Time `json:"reaction_deadline,omitzero"`
}

// AgentPerception projects the enriched agent view for one seat.
func AgentPerception(g *game.Game, agentID string) (Perception, error) {
	agent, ok := g.PlayerByID(agentID)
	if !ok {
		return Perception{}, game.ErrUnknownPlayer
	}
	private, err := Private(g, agentID)
	if err != nil {
		return Perception{}, err
	}

	opponents := make([]Opponent, 0, len(g.Players)-1)
	for _, p := range g.Players {
		if p.ID == agentID {
			continue
		}
		opponents = append(opponents, Opponent{
			ID:         p.ID,
			Name:       p.Name,
			Coins:      p.Coins,
			CardCount:  len(p.Hand),
			Influence:  p.InfluenceCount,
			Eliminated: p.Eliminated,
		})
	}

	var pending *game.PendingAction
	if g.PendingAction != nil {
		pa := *g.PendingAction
		pending = &pa
	}

	return Perception{
		GameID:           g.ID,
		YourID:           agentID,
		YourName:         agent.Name,
		YourHand:         private.Hand,
		YourCoins:        agent.Coins,
		YourInfluence:    agent.InfluenceCount,
		CurrentPlayer:    g.Current().ID,
		IsYourTurn:       g.Current().ID == agentID,
		Phase:            g.Phase,
		TurnNumber:       g.TurnNumber,
		Opponents:        opponents,
		PendingAction:    pending,
		AvailableActions: private.AvailableActions,
		CanReact:         private.CanChallenge || private.CanBlock,
		ReactionOptions: ReactionOptions{
			CanChallenge: private.CanChallenge,
			CanBlock:     private.CanBlock,
			BlockCards:   private.BlockCards,
		},
		Insights:         insights(g, agent),
		ReactionDeadline: g.ReactionDeadline,
	}, nil
}

// insights derives claim summaries, suspicion flags and plain-language
// recommendations for one agent.
func insights(g *game.Game, agent *game.Player) Insights {
	out := Insights{
		ClaimsMade:          make([]ClaimSummary, 0, len(g.Claims)),
		SuspiciousBehaviors: []Suspicion{},
		Recommendations:     []string{},
	}

	for _, c := range g.Claims {
		out.ClaimsMade = append(out.ClaimsMade, ClaimSummary{
			Player:   c.Player,
			Card:     c.ClaimedCard,
			Action:   c.Action,
			Verified: c.Challenged && c.Result == game.ChallengeFailed,
		})
	}

	for _, p := range g.Players {
		if p.ID == agent.ID {
			continue
		}
		distinct := make(map[deck.Kind]bool)
		caught := 0
		for _, c := range g.Claims {
			if c.Player != p.ID {
				continue
			}
			distinct[c.ClaimedCard] = true
			if c.Challenged && c.Result == game.ChallengeSucceeded {
				caught++
			}
		}
		if len(distinct) > 2 {
			out.SuspiciousBehaviors = append(out.SuspiciousBehaviors, Suspicion{
				Player: p.ID,
				Reason: fmt.Sprintf("claimed %d different cards, likely bluffing", len(distinct)),
			})
		}
		if caught > 0 {
			out.SuspiciousBehaviors = append(out.SuspiciousBehaviors, Suspicion{
				Player: p.ID,
				Reason: fmt.Sprintf("caught bluffing %d time(s)", caught),
			})
		}
	}

	if g.Current().ID == agent.ID {
		switch {
		case agent.Coins >= game.ForcedCoupThreshold:
			out.Recommendations = append(out.Recommendations, "you must coup (10+ coins)")
		case agent.Coins >= game.CoupCost:
			out.Recommendations = append(out.Recommendations, "consider a coup to eliminate a strong opponent")
		case agent.Coins >= game.AssassinateCost:
			out.Recommendations = append(out.Recommendations, "assassinate is available")
		}
		if agent.Holds(deck.Duke) {
			out.Recommendations = append(out.Recommendations, "you hold a duke, tax for 3 coins is safe")
		}
	}

	if g.PendingAction != nil && g.PendingAction.Actor != agent.ID {
		total, verified := 0, 0
		for _, c := range g.Claims {
			if c.Player != g.PendingAction.Actor {
				continue
			}
			total++
			if c.Challenged && c.Result == game.ChallengeFailed {
				verified++
			}
		}
		if verified == 0 && total > 2 {
			out.Recommendations = append(out.Recommendations, "actor has several unverified claims, consider challenging")
		}
	}

	return out
}
