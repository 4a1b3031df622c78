package rules

import (
	"errors"
	"fmt"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// ErrIllegalTransition is returned when a phase change skips the round flow.
var ErrIllegalTransition = errors.New("illegal phase transition")

// Phase represents the phases of one round.
type Phase int

const (
	PhaseAwaitingCards Phase = iota
	PhaseRevealAndResolve
	PhaseRoundEndCheck
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseAwaitingCards:    "AWAITING_CARDS",
	PhaseRevealAndResolve: "REVEAL_AND_RESOLVE",
	PhaseRoundEndCheck:    "ROUND_END_CHECK",
	PhaseGameOver:         "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	PhaseAwaitingCards:    {PhaseRevealAndResolve},
	PhaseRevealAndResolve: {PhaseRoundEndCheck},
	PhaseRoundEndCheck:    {PhaseAwaitingCards, PhaseGameOver},
	PhaseGameOver:         {PhaseAwaitingCards},
}

// TurnManager tracks the round phase, the turn counter and the tier cursor
// during resolution.
type TurnManager struct {
	phase      Phase
	turnNumber int
	tierIndex  int
}

// NewTurnManager creates a turn manager awaiting cards on the given turn.
// Turn 0 is the diviner pick.
func NewTurnManager(turn int) *TurnManager {
	return &TurnManager{
		phase:      PhaseAwaitingCards,
		turnNumber: turn,
		tierIndex:  -1,
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return tm.phase
}

// TurnNumber returns the current turn number.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// Advance moves to the next phase. Leaving RoundEndCheck for AwaitingCards
// increments the turn counter; leaving GameOver restarts it at 1.
func (tm *TurnManager) Advance(next Phase) error {
	legal := false
	for _, p := range transitions[tm.phase] {
		if p == next {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, tm.phase, next)
	}

	switch {
	case tm.phase == PhaseRoundEndCheck && next == PhaseAwaitingCards:
		tm.turnNumber++
	case tm.phase == PhaseGameOver:
		tm.turnNumber = 1
	}
	tm.phase = next
	tm.tierIndex = -1
	return nil
}

// NextTier moves the cursor to the next resolution tier. It reports false
// once every tier has been visited or outside RevealAndResolve.
func (tm *TurnManager) NextTier() (catalog.Priority, bool) {
	if tm.phase != PhaseRevealAndResolve || tm.tierIndex+1 >= len(TierOrder) {
		return 0, false
	}
	tm.tierIndex++
	return TierOrder[tm.tierIndex], true
}

// CurrentTier returns the tier being resolved, if any.
func (tm *TurnManager) CurrentTier() (catalog.Priority, bool) {
	if tm.phase != PhaseRevealAndResolve || tm.tierIndex < 0 {
		return 0, false
	}
	return TierOrder[tm.tierIndex], true
}

// Restart forces the manager back to AwaitingCards on the given turn.
func (tm *TurnManager) Restart(turn int) {
	tm.phase = PhaseAwaitingCards
	tm.turnNumber = turn
	tm.tierIndex = -1
}
