package game

import (
	"errors"
	"fmt"
)

// Validation errors are expected and recoverable: the operation is rejected
// verbatim and the game state is left untouched. Callers may retry with
// corrected input.
var (
	ErrIllegalPhase           = errors.New("operation not legal in current phase")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrPlayerEliminated       = errors.New("player is eliminated")
	ErrInsufficientFunds      = errors.New("not enough coins")
	ErrTargetRequired         = errors.New("action requires a target")
	ErrInvalidTarget          = errors.New("invalid target")
	ErrSelfTargetForbidden    = errors.New("cannot target yourself")
	ErrTargetEliminated       = errors.New("target is eliminated")
	ErrForcedCoup             = errors.New("must coup with 10 or more coins")
	ErrInvalidChallenger      = errors.New("invalid challenger")
	ErrActionNotChallengeable = errors.New("action cannot be challenged")
	ErrActionNotBlockable     = errors.New("action cannot be blocked")
	ErrInvalidBlockCard       = errors.New("card cannot block this action")
	ErrAlreadyReacted         = errors.New("player already reacted")
	ErrReactionWindowOpen     = errors.New("reaction window still open")
	ErrGameFull               = errors.New("game is full")
	ErrAlreadyJoined          = errors.New("player already in game")
	ErrNotEnoughPlayers       = errors.New("not enough players")
	ErrUnknownPlayer          = errors.New("player not in game")
	ErrUnknownAction          = errors.New("unknown action kind")
)

// InvariantError indicates an engine or caller bug: state that should be
// impossible under the rules. Unlike validation errors it must not be
// silently retried.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.msg
}

func invariantf(format string, args ...any) error {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}

// IsInvariant reports whether err is an invariant violation rather than a
// recoverable validation failure.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
