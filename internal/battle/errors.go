package battle

import "errors"

var (
	// ErrInvalidAction is returned for a player action submitted outside the
	// player's turn or for an unknown action. The battle is left untouched.
	ErrInvalidAction = errors.New("invalid action")

	// ErrIllegalTransition is returned when a collaborator drives the session
	// out of order, such as resolving an enemy turn with no live enemy or
	// starting a battle while one is running. The battle is left untouched.
	ErrIllegalTransition = errors.New("illegal battle transition")

	// ErrMissingAbility is returned by NewSession when the ability registry
	// cannot resolve every battle action.
	ErrMissingAbility = errors.New("ability registry incomplete")
)
