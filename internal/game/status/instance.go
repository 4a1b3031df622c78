package status

import (
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/mana"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// applyFunc installs the behaviour of one preset on a fresh instance.
type applyFunc func(in *instance)

// instance is the view an apply function gets of its status.
type instance struct {
	m  *Manager
	st *state.Status
	b  *binding
}

func (in *instance) owner() *state.Player {
	return in.m.arena.Player(in.st.Owner)
}

func (in *instance) onTeardown(fn func()) {
	in.b.teardown = append(in.b.teardown, fn)
}

func (in *instance) subscribe(eventType rules.EventType, fn func(rules.Event)) int {
	h := in.m.bus.SubscribeTyped(eventType, fn)
	in.b.handles = append(in.b.handles, h)
	return h
}

func (in *instance) onTurnEnd(fn func()) {
	in.subscribe(rules.EventTurnEnd, func(rules.Event) { fn() })
}

// onOwnCardPlayed hooks cards played by the instance's owner.
func (in *instance) onOwnCardPlayed(fn func(card *state.PlayedCard)) {
	in.subscribe(rules.EventCardPlayed, func(evt rules.Event) {
		if evt.Card != nil && evt.Card.Owner == in.st.Owner {
			fn(evt.Card)
		}
	})
}

// onOwnHealthChanged hooks health changes of the instance's owner.
func (in *instance) onOwnHealthChanged(fn func(delta float64)) {
	in.subscribe(rules.EventHealthChanged, func(evt rules.Event) {
		if evt.PlayerID == in.st.Owner {
			fn(evt.Amount)
		}
	})
}

// changeMana and changeHealth are suppressed while the instance is still in
// its skip-first grace turn.
func (in *instance) changeMana(amount float64, set bool) {
	if in.st.SkipFirst {
		return
	}
	in.m.ledger.ChangeMana(in.st.Owner, amount, set)
}

func (in *instance) changeHealth(playerID int, amount float64, set bool) {
	if in.st.SkipFirst {
		return
	}
	in.m.ledger.ChangeHealth(playerID, amount, set)
}

// attack deals untraced damage to a player, letting their defense card try
// to block it first.
func (in *instance) attack(victim int, damage catalog.DamageType, amount float64) {
	p := in.m.arena.Player(victim)
	if p == nil {
		return
	}
	if p.Played != nil && p.Played.Type == catalog.TypeDefense && p.CanUseEffects && in.m.exec != nil {
		if in.m.exec.Defend(victim, damage) {
			return
		}
	}
	in.changeHealth(victim, -amount, false)
}

func (in *instance) spawn(presetID, countdown int, skipFirst bool, params Params) {
	in.m.Spawn(in.st.Owner, presetID, countdown, skipFirst, params)
}

func (in *instance) invoke(card *state.PlayedCard) {
	if in.m.exec == nil || card == nil {
		return
	}
	in.m.exec.Invoke(card)
}

// offset adds delta to a player field and subtracts it again on teardown.
func (in *instance) offset(field *float64, delta float64) {
	*field += delta
	in.onTeardown(func() { *field -= delta })
}

// flag sets a player flag while any instance holds it. The last teardown
// puts the default back; dead players stay untargetable.
func (in *instance) flag(field *bool, value bool) {
	p := in.owner()
	in.m.flagHolders[field]++
	*field = value
	in.onTeardown(func() {
		in.m.flagHolders[field]--
		if in.m.flagHolders[field] > 0 {
			return
		}
		delete(in.m.flagHolders, field)
		*field = !value
		if !p.Alive() {
			p.Targetable = false
		}
	})
}

func (in *instance) typeOverride(t catalog.CardType, value float64) {
	p := in.owner()
	revert := mana.SetTypeOverride(p, t, value)
	in.m.costChanged(p.ID)
	in.onTeardown(func() {
		revert()
		in.m.costChanged(p.ID)
	})
}

func (in *instance) cardOverride(cardID int, value float64) {
	p := in.owner()
	revert := mana.SetCardOverride(p, cardID, value)
	in.m.costChanged(p.ID)
	in.onTeardown(func() {
		revert()
		in.m.costChanged(p.ID)
	})
}
