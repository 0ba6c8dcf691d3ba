package game

import (
	"errors"
	"fmt"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

var (
	// ErrIllegalAction is returned when a strategy offers an action that fails
	// its legality predicate.
	ErrIllegalAction = errors.New("illegal action offered")
	// ErrInsufficientFunds is returned when a cost cannot be paid. The engine
	// recovers from it by disqualifying the player.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidExchange is returned when an exchange selection breaks the
	// keep/return contract.
	ErrInvalidExchange = errors.New("invalid exchange selection")
	// ErrEmptyDeck is returned when drawing from an empty court deck.
	ErrEmptyDeck = errors.New("draw from empty deck")
	// ErrInvalidInfluenceChoice is returned when a strategy picks an influence
	// the player does not hold.
	ErrInvalidInfluenceChoice = errors.New("invalid influence choice")
	// ErrInvalidPlayers is returned when a game cannot be seated.
	ErrInvalidPlayers = errors.New("invalid players")
	// ErrGameOver is returned when playing a turn of a finished game.
	ErrGameOver = errors.New("game is over")
	// ErrTurnLimit is returned when a game exceeds its configured turn limit.
	ErrTurnLimit = errors.New("turn limit exceeded")
	// ErrInvariantViolated is returned when card conservation or turn order
	// bookkeeping is found broken after a turn.
	ErrInvariantViolated = errors.New("game invariant violated")
)

// IllegalActionError carries the offending action and the failed predicate.
type IllegalActionError struct {
	Action Action
	Result rules.LegalityResult
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrIllegalAction, e.Action, e.Result)
}

func (e *IllegalActionError) Unwrap() error {
	return ErrIllegalAction
}
