package status

import (
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

var applies map[int]applyFunc

// Populated in init: the table refers to functions that reach back into it.
func init() {
	applies = map[int]applyFunc{
		catalog.StatusEnergised:        applyEnergised,
		catalog.StatusCrippled:         applyCrippled,
		catalog.StatusWithering:        applyWithering,
		catalog.StatusRegeneration:     applyRegeneration,
		catalog.StatusCannotAttack:     applyCannotAttack,
		catalog.StatusCannotDefend:     applyCannotDefend,
		catalog.StatusInvincible:       applyInvincible,
		catalog.StatusNegated:          applyNegated,
		catalog.StatusUntargetable:     applyUntargetable,
		catalog.StatusCostDown:         applyCostDown,
		catalog.StatusTypeCostUp:       applyTypeCostUp,
		catalog.StatusSpiritBleed:      applySpiritBleed,
		catalog.StatusUnderAttack:      applyUnderAttack,
		catalog.StatusVulnerable:       applyVulnerable,
		catalog.StatusWarded:           applyWarded,
		catalog.StatusShockwaves:       applyShockwaves,
		catalog.StatusClone:            applyClone,
		catalog.StatusEnrage:           applyEnrage,
		catalog.StatusExecuteEffect:    applyExecuteEffect,
		catalog.StatusEternalBeauty:    applyEternalBeauty,
		catalog.StatusBackstab:         applyBackstab,
		catalog.StatusSolarCharge:      applySolarCharge,
		catalog.StatusCloudHop:         applyCloudHop,
		catalog.StatusMischievousClone: applyMischievousClone,
		catalog.StatusAphrodite:        applyAphrodite,
		catalog.StatusLoki:             applyLoki,
		catalog.StatusBabaYaga:         applyNothing,
		catalog.StatusRa:               applyNothing,
		catalog.StatusSunWukong:        applySunWukong,
		catalog.StatusBellona:          applyNothing,
		catalog.StatusModeAutoAid:      applyAutoAid,
		catalog.StatusModeCloneZone:    applyClone,
		catalog.StatusModeDeflation:    applyDeflation,
	}
}

// Periodic resource deltas.

func applyEnergised(in *instance) {
	in.onTurnEnd(func() { in.changeMana(in.st.FloatParam, false) })
}

func applyCrippled(in *instance) {
	in.onTurnEnd(func() { in.changeMana(-in.st.FloatParam, false) })
}

func applyWithering(in *instance) {
	in.onTurnEnd(func() { in.changeHealth(in.st.Owner, -in.st.FloatParam, false) })
}

func applyRegeneration(in *instance) {
	in.onTurnEnd(func() { in.changeHealth(in.st.Owner, in.st.FloatParam, false) })
}

// Cost overrides.

func applyCannotAttack(in *instance) {
	in.typeOverride(catalog.TypeAttack, 0)
}

func applyCannotDefend(in *instance) {
	in.typeOverride(catalog.TypeDefense, 0)
}

func applyCostDown(in *instance) {
	in.cardOverride(in.st.IntParam, -in.st.FloatParam)
}

func applyTypeCostUp(in *instance) {
	in.typeOverride(catalog.CardType(in.st.IntParam), in.st.FloatParam)
}

// Flags.

func applyInvincible(in *instance) {
	in.flag(&in.owner().Invincible, true)
}

func applyNegated(in *instance) {
	in.flag(&in.owner().CanUseEffects, false)
}

func applyUntargetable(in *instance) {
	in.flag(&in.owner().Targetable, false)
}

// Stat offsets.

func applyVulnerable(in *instance) {
	in.offset(&in.owner().DamageTakenOffset, in.st.FloatParam)
}

func applyWarded(in *instance) {
	in.offset(&in.owner().DamageTakenOffset, -in.st.FloatParam)
}

func applyEnrage(in *instance) {
	in.offset(&in.owner().DamageDealtOffset, in.st.FloatParam)
}

func applySolarCharge(in *instance) {
	in.offset(&in.owner().ManaGainedOffset, 1)
}

// Event hooks.

func applySpiritBleed(in *instance) {
	in.onOwnCardPlayed(func(card *state.PlayedCard) {
		if card.ID != catalog.CardMana {
			in.changeHealth(in.st.Owner, -1, false)
		}
	})
}

func applyUnderAttack(in *instance) {
	in.onTurnEnd(func() {
		in.attack(in.st.Owner, catalog.DamageType(in.st.IntParam), in.st.FloatParam)
	})
}

// applyShockwaves repeats a targeted card against every player other than
// its owner and its original target.
func applyShockwaves(in *instance) {
	in.onOwnCardPlayed(func(card *state.PlayedCard) {
		if !card.Targets || !card.HasTarget() || card.Target == in.st.Owner {
			return
		}
		for _, p := range in.m.arena.Players() {
			if p.ID == card.Target || p.ID == card.Owner {
				continue
			}
			echo := card.Clone()
			echo.Target = p.ID
			in.invoke(echo)
		}
	})
}

// applyClone executes every card of the owner a second time.
func applyClone(in *instance) {
	in.onOwnCardPlayed(func(card *state.PlayedCard) {
		in.invoke(card.Clone())
	})
}

// applyExecuteEffect captures a copy of a catalog card aimed at the owner's
// current target and runs it at turn end.
func applyExecuteEffect(in *instance) {
	def, err := in.m.cat.Card(in.st.IntParam)
	if err != nil {
		in.m.violation("execute effect status references unknown card")
		return
	}
	snapshot := state.NewPlayedCard(def, in.st.Owner)
	if played := in.m.arena.PlayedCardOf(in.st.Owner); played != nil {
		snapshot.Target = played.Target
	}
	in.st.Snapshot = snapshot
	in.onTurnEnd(func() { in.invoke(snapshot.Clone()) })
}

func applyEternalBeauty(in *instance) {
	// -1 only on the first game; rematches start one turn further along.
	if in.st.IntParam == -1 {
		in.st.IntParam = 0
	} else {
		in.st.IntParam = 1
	}
	in.onTurnEnd(func() {
		if in.st.IntParam == 5 {
			in.spawn(catalog.StatusWarded, 3, false, Float(1))
		}
		if in.st.IntParam <= 5 {
			in.st.IntParam++
		}
	})
}

func applyBackstab(in *instance) {
	in.onOwnCardPlayed(func(card *state.PlayedCard) {
		if card.Type != catalog.TypeAttack || !card.HasTarget() {
			return
		}
		victim := in.m.arena.PlayedCardOf(card.Target)
		if victim != nil && victim.Type == catalog.TypeUtility {
			in.attack(card.Target, catalog.DamageMisc, 1)
		}
	})
}

func applyCloudHop(in *instance) {
	in.onOwnHealthChanged(func(delta float64) {
		if delta < 0 {
			in.spawn(catalog.StatusUntargetable, 2, true, NoParams)
		}
	})
}

func applyMischievousClone(in *instance) {
	in.onOwnHealthChanged(func(delta float64) {
		if delta < 0 {
			in.spawn(catalog.StatusClone, 2, true, NoParams)
		}
	})
}

// Diviner stat adjustments.

func applyAphrodite(in *instance) {
	p := in.owner()
	in.changeHealth(p.ID, p.Health+1, true)
}

func applyLoki(in *instance) {
	p := in.owner()
	in.changeMana(p.Mana+1, true)
	if p.Health >= 2 {
		in.changeHealth(p.ID, p.Health-1, true)
	}
}

func applySunWukong(in *instance) {
	p := in.owner()
	in.changeMana(p.Mana-1, true)
	in.changeHealth(p.ID, p.Health+1, true)
}

func applyNothing(*instance) {}

// Game modes.

// applyAutoAid revives a player at zero health by spending 3 mana, either at
// once or, when mana is short, after the current resolution finishes.
func applyAutoAid(in *instance) {
	pending := -1
	revive := func() bool {
		p := in.owner()
		if p.Health <= 0 && p.Mana >= 3 {
			in.changeMana(-3, false)
			in.changeHealth(p.ID, 1, true)
			return true
		}
		return false
	}
	in.onOwnHealthChanged(func(float64) {
		if in.owner().Health > 0 || revive() || pending >= 0 {
			return
		}
		pending = in.m.bus.SubscribeOnce(rules.EventFinishExecute, func(rules.Event) {
			pending = -1
			revive()
		})
	})
	in.onTeardown(func() {
		if pending >= 0 {
			in.m.bus.Unsubscribe(pending)
		}
	})
}

func applyDeflation(in *instance) {
	in.offset(&in.owner().ManaGainedOffset, -999)
	in.onTurnEnd(func() {
		if p := in.owner(); p.Mana < 1 {
			in.changeHealth(p.ID, 0, true)
		}
	})
}
