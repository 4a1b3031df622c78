// Package effects maps every card id to its procedure and runs the defense
// check protocol between an acting card and its victims.
package effects

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/ledger"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
)

// Reaction is what a defense procedure receives when it runs against an
// incoming effect. Attacker is nil for attacks with no card behind them.
type Reaction struct {
	Attacker *state.PlayedCard
	Damage   catalog.DamageType
}

func (r *Reaction) attacker() *state.PlayedCard {
	if r == nil {
		return nil
	}
	return r.Attacker
}

func (r *Reaction) damage() catalog.DamageType {
	if r == nil {
		return catalog.DamageMisc
	}
	return r.Damage
}

// Procedure is the effect of one card. r is nil when the card is executed
// directly; defense procedures return whether they blocked.
type Procedure func(d *Dispatcher, card *state.PlayedCard, r *Reaction) bool

// Dispatcher executes card procedures against the match state.
type Dispatcher struct {
	cat       *catalog.Catalog
	arena     *state.Arena
	bus       *rules.EventBus
	ledger    *ledger.Ledger
	statuses  *status.Manager
	rng       *rand.Rand
	logger    *zap.Logger
	resolving *rules.ResolutionContext
	strict    bool
}

// New creates a dispatcher and registers it as the executor of statuses.
// A nil rng gets a fixed seed.
func New(cat *catalog.Catalog, arena *state.Arena, bus *rules.EventBus, l *ledger.Ledger, statuses *status.Manager, rng *rand.Rand, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	d := &Dispatcher{
		cat:       cat,
		arena:     arena,
		bus:       bus,
		ledger:    l,
		statuses:  statuses,
		rng:       rng,
		logger:    logger,
		resolving: rules.NewResolutionContext(),
	}
	statuses.SetExecutor(d)
	return d
}

// SetStrict makes procedure failures panic instead of being logged.
func (d *Dispatcher) SetStrict(strict bool) {
	d.strict = strict
}

// Validate checks that every card in the catalog has a procedure.
func Validate(cat *catalog.Catalog) error {
	for _, card := range cat.Cards() {
		if _, ok := procedures[card.ID]; !ok {
			return fmt.Errorf("card %d (%s) has no procedure", card.ID, card.Name)
		}
	}
	return nil
}

// Execute runs a played card's procedure and reports its success. Failures
// inside the procedure count as no effect.
func (d *Dispatcher) Execute(card *state.PlayedCard) bool {
	return d.run(card, nil)
}

// Invoke implements status.Executor.
func (d *Dispatcher) Invoke(card *state.PlayedCard) bool {
	return d.run(card, nil)
}

// Defend implements status.Executor: the victim's defense card reacts to an
// attack that has no card behind it.
func (d *Dispatcher) Defend(victim int, damage catalog.DamageType) bool {
	p := d.arena.Player(victim)
	if p == nil || p.Played == nil || p.Played.Type != catalog.TypeDefense || !p.CanUseEffects {
		return false
	}
	return d.run(p.Played, &Reaction{Damage: damage})
}

func (d *Dispatcher) run(card *state.PlayedCard, r *Reaction) (ok bool) {
	if card == nil {
		return false
	}
	proc, found := procedures[card.ID]
	if !found {
		d.violation("card has no procedure", zap.Int("card_id", card.ID))
		return false
	}

	id := fmt.Sprintf("%s/%d", card.Name, card.Owner)
	if err := d.resolving.BeginResolution(id); err != nil {
		d.violation("card resolution aborted", zap.Error(err), zap.Int("depth", d.resolving.GetDepth()))
		return false
	}
	defer func() {
		_ = d.resolving.EndResolution(id)
		if d.strict {
			return
		}
		if rec := recover(); rec != nil {
			d.logger.Error("card procedure failed",
				zap.Int("card_id", card.ID),
				zap.Int("owner", card.Owner),
				zap.Any("panic", rec),
			)
			ok = false
		}
	}()

	ok = proc(d, card, r)
	d.logger.Debug("card executed",
		zap.String("card", card.Name),
		zap.Int("owner", card.Owner),
		zap.Int("target", card.Target),
		zap.Bool("reactive", r != nil),
		zap.Bool("success", ok),
	)
	return ok
}

// TryEffectOnTarget runs the defense check of card against target and
// reports whether the effect may land. The card's target is updated to
// target before the check so that reflections see it.
func (d *Dispatcher) TryEffectOnTarget(card *state.PlayedCard, target int, damage catalog.DamageType) bool {
	owner := d.arena.Player(card.Owner)
	victim := d.arena.Player(target)
	if owner == nil || victim == nil || !victim.Alive() {
		return false
	}
	if owner.ID == victim.ID {
		return true
	}

	card.Target = target
	success := true
	guard := victim.Played

	switch {
	case guard == nil:
	case guard.Type == catalog.TypeDefense:
		if victim.CanUseEffects && d.run(guard, &Reaction{Attacker: card, Damage: damage}) {
			success = false
		}
	case card.Type == catalog.TypeAttack && guard.Type == catalog.TypeAttack:
		// An equal or pricier attack aimed back at us, or at everyone, wins.
		if guard.Cost >= card.Cost && (!guard.HasTarget() || guard.Target == owner.ID) {
			success = false
		}
	}

	evt := rules.NewCardEvent(rules.EventDefenseChecked, guard, success)
	evt.PlayerID = target
	evt.SourceID = owner.ID
	d.bus.Publish(evt)
	return success
}

// Resource helpers. Amounts are magnitudes; the helper decides the sign.

func (d *Dispatcher) gainHealth(id int, amount float64) bool {
	return d.ledger.ChangeHealth(id, math.Max(0, amount), false)
}

func (d *Dispatcher) loseHealth(id int, amount float64) bool {
	return d.ledger.ChangeHealth(id, -math.Max(0, amount), false)
}

// attackLoseHealth deals damage from owner, adding their damage dealt offset.
func (d *Dispatcher) attackLoseHealth(owner, target int, amount float64) bool {
	bonus := 0.0
	if p := d.arena.Player(owner); p != nil {
		bonus = p.DamageDealtOffset
	}
	return d.loseHealth(target, math.Abs(amount)+bonus)
}

func (d *Dispatcher) gainMana(id int, amount float64) bool {
	return d.ledger.ChangeMana(id, math.Max(0, amount), false)
}

func (d *Dispatcher) loseMana(id int, amount float64) bool {
	return d.ledger.ChangeMana(id, -math.Max(0, amount), false)
}

func (d *Dispatcher) spawn(playerID, presetID, countdown int, skipFirst bool, params status.Params) bool {
	st, _ := d.statuses.Spawn(playerID, presetID, countdown, skipFirst, params)
	return st != nil
}

// others returns every player except id, in seat order.
func (d *Dispatcher) others(id int) []*state.Player {
	var out []*state.Player
	for _, p := range d.arena.Players() {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func (d *Dispatcher) violation(msg string, fields ...zap.Field) {
	d.logger.Error(msg, fields...)
	if d.strict {
		panic(msg)
	}
}
