package game

import "time"

// Stage is a point in resolution where presentation may want to pause.
type Stage int

const (
	// StageCard follows every executed card.
	StageCard Stage = iota
	// StageRound precedes the end-of-round broadcast.
	StageRound
	// StageGame follows the game end announcement.
	StageGame
)

// Pacer is called synchronously at each stage. Resolution results never
// depend on it.
type Pacer func(Stage)

// NoPacing returns immediately.
func NoPacing(Stage) {}

// DelayPacer sleeps for the duration configured for each stage.
func DelayPacer(card, round, game time.Duration) Pacer {
	return func(s Stage) {
		var d time.Duration
		switch s {
		case StageCard:
			d = card
		case StageRound:
			d = round
		case StageGame:
			d = game
		}
		if d > 0 {
			time.Sleep(d)
		}
	}
}
