// Package mana computes effective card costs and hand playability.
package mana

import (
	"math"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Unplayable is the effective cost of a card blocked by a zero override.
const Unplayable = -1.0

// EffectiveCost returns what the player would pay for def. An override of
// exactly zero, at type or card level, yields Unplayable.
func EffectiveCost(p *state.Player, def catalog.Card) float64 {
	cost := def.Cost + p.ManaCostOffset

	if override, ok := p.TypeCostOverrides[def.Type]; ok {
		if override == 0 {
			return Unplayable
		}
		cost += override
	}
	if override, ok := p.CardCostOverrides[def.ID]; ok {
		if override == 0 {
			return Unplayable
		}
		cost += override
	}

	return math.Max(0, cost)
}

// Affordable reports whether a card at cost can be committed with mana.
// Zero-cost cards stay playable even with negative mana.
func Affordable(cost, mana float64) bool {
	return cost >= 0 && (cost == 0 || mana >= cost)
}

// Refresh re-prices every hand slot of p and returns the playable card ids.
func Refresh(p *state.Player, cat *catalog.Catalog) []int {
	playable := make([]int, 0, len(p.Hand))
	for i := range p.Hand {
		slot := &p.Hand[i]
		def, err := cat.Card(slot.CardID)
		if err != nil {
			slot.Cost, slot.Playable = Unplayable, false
			continue
		}
		slot.Cost = EffectiveCost(p, def)
		slot.Playable = Affordable(slot.Cost, p.Mana)
		if slot.Playable {
			playable = append(playable, slot.CardID)
		}
	}
	return playable
}
