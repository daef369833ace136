package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/coupforbots/internal/game"
	"github.com/lox/coupforbots/internal/server"
	"github.com/lox/coupforbots/internal/view"
)

// maxTurns bounds runaway games; a legal game between live agents always
// terminates well before this.
const maxTurns = 1000

// Runner acts as the external caller for a service-hosted game: it feeds
// each agent its perception, submits the chosen moves, and plays the timer
// collaborator that retries Resolve after the reaction deadline.
type Runner struct {
	service *server.GameService
	logger  *log.Logger
	agents  map[string]Agent // keyed by player id
}

// NewRunner creates a runner for one set of seated agents.
func NewRunner(service *server.GameService, logger *log.Logger, agents map[string]Agent) *Runner {
	return &Runner{
		service: service,
		logger:  logger.WithPrefix("runner"),
		agents:  agents,
	}
}

// Run drives the game until a winner is set and returns the final public
// state.
func (r *Runner) Run(gameID string) (view.PublicState, error) {
	for i := 0; i < maxTurns; i++ {
		st, err := r.service.PublicState(gameID)
		if err != nil {
			return view.PublicState{}, err
		}

		switch st.Phase {
		case game.PhaseFinished:
			return st, nil
		case game.PhaseAction:
			if err := r.playTurn(gameID, st); err != nil {
				return view.PublicState{}, err
			}
		case game.PhaseReaction:
			if err := r.playReactions(gameID, st); err != nil {
				return view.PublicState{}, err
			}
		case game.PhaseResolution:
			if err := r.service.Resolve(gameID); err != nil {
				return view.PublicState{}, fmt.Errorf("resolve failed: %w", err)
			}
		default:
			return view.PublicState{}, fmt.Errorf("runner cannot drive phase %q", st.Phase)
		}
	}
	return view.PublicState{}, fmt.Errorf("game %s did not finish within %d steps", gameID, maxTurns)
}

// playTurn asks the current player's agent for an action.
func (r *Runner) playTurn(gameID string, st view.PublicState) error {
	agent, ok := r.agents[st.CurrentPlayer]
	if !ok {
		return fmt.Errorf("no agent for current player %s", st.CurrentPlayer)
	}
	p, err := r.service.AgentPerception(gameID, st.CurrentPlayer)
	if err != nil {
		return err
	}
	mv := agent.Act(p)
	if mv.Kind != MoveAct {
		mv = Move{Kind: MoveAct, Action: game.Income}
	}
	if err := r.service.SubmitAction(gameID, st.CurrentPlayer, mv.Action, mv.Target); err != nil {
		// A bot picked an illegal move; income is always legal on your turn.
		r.logger.Debug("agent move rejected, falling back to income",
			"game", gameID, "player", st.CurrentPlayer, "action", mv.Action, "error", err)
		return r.service.SubmitAction(gameID, st.CurrentPlayer, game.Income, "")
	}
	return nil
}

// playReactions polls each live non-actor once in seat order, stopping early
// if a challenge short-circuits the window, then resolves.
func (r *Runner) playReactions(gameID string, st view.PublicState) error {
	if st.PendingAction == nil {
		return fmt.Errorf("reaction phase with no pending action in game %s", gameID)
	}
	for _, seat := range st.Players {
		if seat.Eliminated || seat.ID == st.PendingAction.Actor {
			continue
		}
		agent, ok := r.agents[seat.ID]
		if !ok {
			continue
		}
		p, err := r.service.AgentPerception(gameID, seat.ID)
		if err != nil {
			return err
		}
		if p.Phase != game.PhaseReaction {
			break // a challenge already moved the game to resolution
		}
		switch mv := agent.Act(p); mv.Kind {
		case MoveChallenge:
			if err := r.service.SubmitChallenge(gameID, seat.ID); err != nil {
				r.logger.Debug("challenge rejected", "game", gameID, "player", seat.ID, "error", err)
			}
		case MoveBlock:
			if err := r.service.SubmitBlock(gameID, seat.ID, mv.BlockCard); err != nil {
				r.logger.Debug("block rejected", "game", gameID, "player", seat.ID, "error", err)
			}
		}
	}
	return r.resolveAfterDeadline(gameID)
}

// resolveAfterDeadline retries Resolve once the reaction window elapses. The
// engine never sleeps; waiting is the runner's job as timer collaborator.
func (r *Runner) resolveAfterDeadline(gameID string) error {
	err := r.service.Resolve(gameID)
	if !errors.Is(err, game.ErrReactionWindowOpen) {
		return err
	}
	deadline, derr := r.service.ReactionDeadline(gameID)
	if derr != nil {
		return derr
	}
	if wait := time.Until(deadline); wait > 0 {
		time.Sleep(wait)
	}
	return r.service.Resolve(gameID)
}
