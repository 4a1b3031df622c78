package mana

import (
	"slices"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Revert undoes one override entry.
type Revert func()

// SetTypeOverride installs a card-type cost override on p. The newest live
// entry of a type wins; the returned Revert removes only this entry.
func SetTypeOverride(p *state.Player, t catalog.CardType, value float64) Revert {
	return push(p.TypeOverrideStacks, p.TypeCostOverrides, t, value)
}

// SetCardOverride installs an individual card cost override on p.
func SetCardOverride(p *state.Player, cardID int, value float64) Revert {
	return push(p.CardOverrideStacks, p.CardCostOverrides, cardID, value)
}

func push[K comparable](stacks map[K]*state.OverrideStack, view map[K]float64, key K, value float64) Revert {
	s, ok := stacks[key]
	if !ok {
		s = &state.OverrideStack{}
		s.Base, s.HasBase = view[key]
		stacks[key] = s
	}
	entry := &state.OverrideEntry{Value: value}
	s.Entries = append(s.Entries, entry)
	view[key] = value

	return func() {
		i := slices.Index(s.Entries, entry)
		if i < 0 {
			return
		}
		s.Entries = slices.Delete(s.Entries, i, i+1)
		if n := len(s.Entries); n > 0 {
			view[key] = s.Entries[n-1].Value
			return
		}
		delete(stacks, key)
		if s.HasBase {
			view[key] = s.Base
			return
		}
		delete(view, key)
	}
}
