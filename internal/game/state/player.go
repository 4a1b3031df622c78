// Package state holds the mutable per-match records: players, played cards
// and status instance data. Behaviour lives in the ledger, status and effects
// packages; this package only stores and looks up.
package state

import (
	"fmt"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// PlayerStatus is the commitment state of a player within a round.
type PlayerStatus int

const (
	NotPlayed PlayerStatus = iota
	HasPlayed
	Dead
)

var playerStatusNames = map[PlayerStatus]string{
	NotPlayed: "NOT_PLAYED",
	HasPlayed: "PLAYED_CARD",
	Dead:      "DEAD",
}

func (s PlayerStatus) String() string {
	if name, ok := playerStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PLAYER_STATUS_%d", int(s))
}

// NoPlayer marks an absent player reference.
const NoPlayer = -1

// HandSlot is one card in a player's hand with its current pricing.
type HandSlot struct {
	CardID   int
	Cost     float64
	Playable bool
}

// Player is the mutable record of one seat. Health and Mana are only written
// through the ledger.
type Player struct {
	ID     int
	Name   string
	Health float64
	Mana   float64
	Status PlayerStatus

	// Played is this round's committed card, nil before commitment.
	Played *PlayedCard
	// Pending is a targeting card awaiting its target choice.
	Pending *PlayedCard

	Invincible    bool
	Targetable    bool
	CanUseEffects bool

	DamageTakenOffset  float64
	DamageDealtOffset  float64
	HealthGainedOffset float64
	ManaGainedOffset   float64
	ManaCostOffset     float64

	// TypeCostOverrides and CardCostOverrides alter effective cost; an
	// override of exactly zero makes the card unplayable.
	TypeCostOverrides map[catalog.CardType]float64
	CardCostOverrides map[int]float64
	// TypeOverrideStacks and CardOverrideStacks hold the live entries behind
	// each override key so they can be removed in any order.
	TypeOverrideStacks map[catalog.CardType]*OverrideStack
	CardOverrideStacks map[int]*OverrideStack

	Statuses []*Status
	Hand     []HandSlot

	DivinerID int
	// Left marks a player who disconnected from the room.
	Left bool
}

// NewPlayer returns a player with default flags and empty modifier maps.
func NewPlayer(id int, name string) *Player {
	return &Player{
		ID:                 id,
		Name:               name,
		Targetable:         true,
		CanUseEffects:      true,
		TypeCostOverrides:  make(map[catalog.CardType]float64),
		CardCostOverrides:  make(map[int]float64),
		TypeOverrideStacks: make(map[catalog.CardType]*OverrideStack),
		CardOverrideStacks: make(map[int]*OverrideStack),
		DivinerID:          NoPlayer,
	}
}

// OverrideStack is the live overrides of one key, oldest first, over the
// value the key had before the first of them.
type OverrideStack struct {
	Base    float64
	HasBase bool
	Entries []*OverrideEntry
}

// OverrideEntry is one installed override.
type OverrideEntry struct {
	Value float64
}

// Alive reports whether the player has not been marked dead.
func (p *Player) Alive() bool {
	return p.Status != Dead
}

// HasInHand reports whether the card id is in the player's hand.
func (p *Player) HasInHand(cardID int) bool {
	return p.handIndex(cardID) >= 0
}

// HandSlotOf returns the hand slot holding cardID.
func (p *Player) HandSlotOf(cardID int) (HandSlot, bool) {
	if i := p.handIndex(cardID); i >= 0 {
		return p.Hand[i], true
	}
	return HandSlot{}, false
}

// RemoveFromHand drops the first slot holding cardID.
func (p *Player) RemoveFromHand(cardID int) bool {
	i := p.handIndex(cardID)
	if i < 0 {
		return false
	}
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return true
}

// AddToHand appends a card slot.
func (p *Player) AddToHand(cardID int) {
	p.Hand = append(p.Hand, HandSlot{CardID: cardID})
}

func (p *Player) handIndex(cardID int) int {
	for i, slot := range p.Hand {
		if slot.CardID == cardID {
			return i
		}
	}
	return -1
}

// FindStatus returns the active instance matching the dedup key.
func (p *Player) FindStatus(presetID int, floatParam float64, intParam int) *Status {
	for _, st := range p.Statuses {
		if st.PresetID == presetID && st.FloatParam == floatParam && st.IntParam == intParam {
			return st
		}
	}
	return nil
}

// DetachStatus removes the instance from the player's list.
func (p *Player) DetachStatus(st *Status) bool {
	for i, cur := range p.Statuses {
		if cur == st {
			p.Statuses = append(p.Statuses[:i], p.Statuses[i+1:]...)
			return true
		}
	}
	return false
}

// Modifiers is the part of a player that status effects modify.
type Modifiers struct {
	Invincible         bool
	Targetable         bool
	CanUseEffects      bool
	DamageTakenOffset  float64
	DamageDealtOffset  float64
	HealthGainedOffset float64
	ManaGainedOffset   float64
	ManaCostOffset     float64
	TypeCostOverrides  map[catalog.CardType]float64
	CardCostOverrides  map[int]float64
}

// Modifiers captures a copy of the player's flags, offsets and cost maps.
func (p *Player) Modifiers() Modifiers {
	m := Modifiers{
		Invincible:         p.Invincible,
		Targetable:         p.Targetable,
		CanUseEffects:      p.CanUseEffects,
		DamageTakenOffset:  p.DamageTakenOffset,
		DamageDealtOffset:  p.DamageDealtOffset,
		HealthGainedOffset: p.HealthGainedOffset,
		ManaGainedOffset:   p.ManaGainedOffset,
		ManaCostOffset:     p.ManaCostOffset,
		TypeCostOverrides:  make(map[catalog.CardType]float64, len(p.TypeCostOverrides)),
		CardCostOverrides:  make(map[int]float64, len(p.CardCostOverrides)),
	}
	for k, v := range p.TypeCostOverrides {
		m.TypeCostOverrides[k] = v
	}
	for k, v := range p.CardCostOverrides {
		m.CardCostOverrides[k] = v
	}
	return m
}
