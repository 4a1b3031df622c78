package state

import (
	"github.com/google/uuid"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// PlayedCard is a per-round copy of a card definition bound to an owner and
// an optional target, both player ids.
type PlayedCard struct {
	catalog.Card
	Owner  int
	Target int
}

// NewPlayedCard copies def into a fresh instance owned by owner.
func NewPlayedCard(def catalog.Card, owner int) *PlayedCard {
	return &PlayedCard{Card: def, Owner: owner, Target: NoPlayer}
}

// HasTarget reports whether a target has been chosen.
func (pc *PlayedCard) HasTarget() bool {
	return pc != nil && pc.Target != NoPlayer
}

// Clone returns a deep copy.
func (pc *PlayedCard) Clone() *PlayedCard {
	if pc == nil {
		return nil
	}
	cp := *pc
	return &cp
}

// Status is the data of one live status instance. Runtime subscriptions are
// held by the status manager, keyed by ID.
type Status struct {
	ID        uuid.UUID
	PresetID  int
	Owner     int
	Countdown int
	SkipFirst bool

	FloatParam float64
	IntParam   int

	// Snapshot is the captured card of a delayed-effect status.
	Snapshot *PlayedCard
}

// Indefinite reports whether the countdown never expires.
func (s *Status) Indefinite() bool {
	return s.Countdown < 0
}
