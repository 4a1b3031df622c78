package rules

import (
	"fmt"
	"slices"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// DefaultMaxDepth bounds nested card executions (clone of a shockwave echo
// of a reflected attack, and so on).
const DefaultMaxDepth = 16

// ResolutionContext tracks which cards are currently resolving so that
// re-entrant executions cannot recurse without bound. It belongs to a single
// match goroutine.
type ResolutionContext struct {
	resolvingStack []string // innermost at end
	maxDepth       int
}

// NewResolutionContext creates a new resolution context
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{
		resolvingStack: make([]string, 0, 8),
		maxDepth:       DefaultMaxDepth,
	}
}

// BeginResolution marks the start of resolving a card
func (rc *ResolutionContext) BeginResolution(itemID string) error {
	if len(rc.resolvingStack) >= rc.maxDepth {
		return fmt.Errorf("maximum resolution depth (%d) exceeded resolving %s", rc.maxDepth, itemID)
	}
	rc.resolvingStack = append(rc.resolvingStack, itemID)
	return nil
}

// EndResolution marks the end of resolving a card
func (rc *ResolutionContext) EndResolution(itemID string) error {
	if len(rc.resolvingStack) == 0 {
		return fmt.Errorf("no item currently resolving")
	}
	current := rc.resolvingStack[len(rc.resolvingStack)-1]
	if current != itemID {
		return fmt.Errorf("resolution mismatch: expected %s, got %s", current, itemID)
	}
	rc.resolvingStack = rc.resolvingStack[:len(rc.resolvingStack)-1]
	return nil
}

// GetDepth returns the current resolution depth
func (rc *ResolutionContext) GetDepth() int {
	return len(rc.resolvingStack)
}

// TierOrder is the order in which priority tiers resolve within a round.
var TierOrder = []catalog.Priority{
	catalog.PriorityDontExecute,
	catalog.PriorityEffectNegate,
	catalog.PriorityManaLost,
	catalog.PriorityEarly,
	catalog.PriorityNormal,
	catalog.PriorityLate,
}

// IsUniqueTier reports whether conflicting cards of the tier are pruned to
// the winner of a mana cost comparison.
func IsUniqueTier(p catalog.Priority) bool {
	return p == catalog.PriorityEffectNegate || p == catalog.PriorityManaLost
}

// CardsAtTier returns the committed cards of the given tier in seat order.
func CardsAtTier(players []*state.Player, tier catalog.Priority) []*state.PlayedCard {
	var out []*state.PlayedCard
	for _, p := range players {
		if p.Played != nil && p.Played.Priority == tier {
			out = append(out, p.Played)
		}
	}
	return out
}

// SelectUnique prunes the cards of a unique tier.
//
// A targeting card facing a same-tier card on its target keeps the higher
// cost of the two; the lower one is barred for the rest of the tier and equal
// costs add neither. A targeting card whose target played something else
// always executes; a card aimed at its owner faces itself and never does. A
// non-targeting card replaces everything accepted so far when no accepted
// card costs as much, and ends the selection; otherwise it is dropped. The result therefore depends on seat order when several
// non-targeting cards are involved.
func SelectUnique(cards []*state.PlayedCard, playedOf func(playerID int) *state.PlayedCard) []*state.PlayedCard {
	if len(cards) <= 1 {
		return cards
	}

	var accepted, barred []*state.PlayedCard
	add := func(pc *state.PlayedCard) {
		if !slices.Contains(accepted, pc) && !slices.Contains(barred, pc) {
			accepted = append(accepted, pc)
		}
	}

	for _, pc := range cards {
		if !pc.Targets {
			highest := true
			for _, held := range accepted {
				if held.Cost >= pc.Cost {
					highest = false
					break
				}
			}
			if highest {
				return []*state.PlayedCard{pc}
			}
			continue
		}

		var opposing *state.PlayedCard
		if pc.HasTarget() {
			opposing = playedOf(pc.Target)
		}
		if opposing == nil || opposing.Priority != pc.Priority {
			add(pc)
			continue
		}
		if opposing.Cost == pc.Cost {
			continue
		}
		higher, lower := pc, opposing
		if opposing.Cost > pc.Cost {
			higher, lower = opposing, pc
		}
		add(higher)
		accepted = slices.DeleteFunc(accepted, func(c *state.PlayedCard) bool { return c == lower })
		barred = append(barred, lower)
	}
	return accepted
}
