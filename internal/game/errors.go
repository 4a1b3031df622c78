package game

import "errors"

// Commands rejected with one of these errors leave the match unchanged.
var (
	ErrTooFewPlayers    = errors.New("at least 2 players required")
	ErrTooManyPlayers   = errors.New("at most 8 players allowed")
	ErrNotAwaitingCards = errors.New("match is not accepting cards")
	ErrNotYourTurn      = errors.New("player has already committed this round")
	ErrPlayerDead       = errors.New("player is dead")
	ErrCardNotInHand    = errors.New("card is not in hand")
	ErrCardUnplayable   = errors.New("card is not playable")
	ErrNoPendingCard    = errors.New("no card is waiting for a target")
	ErrTargetPending    = errors.New("card is waiting for a target")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrMatchOver        = errors.New("match is over")
	ErrMatchRunning     = errors.New("match is still running")
)

const (
	minPlayers = 2
	maxPlayers = 8
)
