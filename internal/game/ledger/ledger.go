// Package ledger is the only writer of player health and mana.
package ledger

import (
	"math"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Ledger applies health and mana changes subject to death, invincibility
// and the per-player offsets.
type Ledger struct {
	arena  *state.Arena
	bus    *rules.EventBus
	logger *zap.Logger
}

// New creates a ledger over arena publishing to bus.
func New(arena *state.Arena, bus *rules.EventBus, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{arena: arena, bus: bus, logger: logger}
}

func (l *Ledger) living(id int) *state.Player {
	p := l.arena.Player(id)
	if p == nil || !p.Alive() {
		return nil
	}
	return p
}

// ChangeMana adds amount to the player's mana, or assigns it when set is
// true. Gains are adjusted by ManaGainedOffset and never become losses.
func (l *Ledger) ChangeMana(id int, amount float64, set bool) bool {
	p := l.living(id)
	if p == nil {
		return false
	}

	if set {
		p.Mana = amount
		l.logger.Debug("mana set", zap.Int("player_id", id), zap.Float64("mana", amount))
		return true
	}

	if amount > 0 {
		amount = math.Max(0, amount+p.ManaGainedOffset)
	}
	p.Mana += amount
	l.logger.Debug("mana changed",
		zap.Int("player_id", id),
		zap.Float64("delta", amount),
		zap.Float64("mana", p.Mana),
	)
	return true
}

// ChangeHealth adds amount to the player's health, or assigns it when set
// is true. Losses fail against invincible players and are adjusted by
// DamageTakenOffset without turning into gains; gains are adjusted by
// HealthGainedOffset without turning into losses. Every non-set change
// publishes EventHealthChanged with the applied delta.
func (l *Ledger) ChangeHealth(id int, amount float64, set bool) bool {
	p := l.living(id)
	if p == nil {
		return false
	}

	if set {
		p.Health = amount
		l.logger.Debug("health set", zap.Int("player_id", id), zap.Float64("health", amount))
		return true
	}

	if amount < 0 {
		if p.Invincible {
			return false
		}
		amount = math.Min(0, amount-p.DamageTakenOffset)
	} else {
		amount = math.Max(0, amount+p.HealthGainedOffset)
	}
	p.Health += amount
	l.logger.Debug("health changed",
		zap.Int("player_id", id),
		zap.Float64("delta", amount),
		zap.Float64("health", p.Health),
	)

	l.bus.Publish(rules.NewEventWithAmount(rules.EventHealthChanged, id, state.NoPlayer, amount))
	return true
}

// PayCost deducts a card's cost. It fails when the player cannot cover a
// positive cost.
func (l *Ledger) PayCost(id int, cost float64) bool {
	p := l.living(id)
	if p == nil {
		return false
	}
	if cost > 0 && p.Mana < cost {
		return false
	}
	return l.ChangeMana(id, -cost, false)
}
