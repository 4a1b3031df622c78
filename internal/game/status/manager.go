// Package status runs the status effect lifecycle: spawn with deduplication,
// per-preset apply logic, turn-end countdown and single-shot teardown.
package status

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/ledger"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Executor runs card procedures on behalf of statuses.
type Executor interface {
	// Invoke runs a card's procedure directly, without paying its cost and
	// without publishing EventCardPlayed.
	Invoke(card *state.PlayedCard) bool
	// Defend runs the victim's defense card against an attack that has no
	// card behind it. It reports whether the attack was blocked.
	Defend(victim int, damage catalog.DamageType) bool
}

// Params are the optional float and int parameters of an instance. -1 means
// unset for both.
type Params struct {
	Float float64
	Int   int
}

// NoParams leaves both parameters unset.
var NoParams = Params{Float: -1, Int: -1}

// Float sets only the float parameter.
func Float(f float64) Params { return Params{Float: f, Int: -1} }

// Int sets only the int parameter.
func Int(i int) Params { return Params{Float: -1, Int: i} }

// FloatInt sets both parameters.
func FloatInt(f float64, i int) Params { return Params{Float: f, Int: i} }

// binding holds the runtime side of one live instance.
type binding struct {
	handles   []int
	countdown int
	teardown  []func()
	once      sync.Once
}

// Manager owns every live status instance of a match.
type Manager struct {
	cat    *catalog.Catalog
	arena  *state.Arena
	bus    *rules.EventBus
	ledger *ledger.Ledger
	exec   Executor
	logger *zap.Logger
	strict bool

	bindings     map[uuid.UUID]*binding
	flagHolders  map[*bool]int
	onCostChange func(playerID int)
}

// NewManager creates a status manager. exec may be attached later with
// SetExecutor when the dispatcher itself depends on the manager.
func NewManager(cat *catalog.Catalog, arena *state.Arena, bus *rules.EventBus, l *ledger.Ledger, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cat:         cat,
		arena:       arena,
		bus:         bus,
		ledger:      l,
		logger:      logger,
		bindings:    make(map[uuid.UUID]*binding),
		flagHolders: make(map[*bool]int),
	}
}

// SetExecutor attaches the card procedure runner.
func (m *Manager) SetExecutor(exec Executor) {
	m.exec = exec
}

// SetStrict makes invariant violations panic instead of being logged.
func (m *Manager) SetStrict(strict bool) {
	m.strict = strict
}

// OnCostChange registers a callback run whenever a status edits a player's
// cost override maps.
func (m *Manager) OnCostChange(fn func(playerID int)) {
	m.onCostChange = fn
}

// Validate checks that every preset in the catalog has apply logic.
func Validate(cat *catalog.Catalog) error {
	for _, preset := range cat.Statuses() {
		if _, ok := applies[preset.ID]; !ok {
			return fmt.Errorf("status preset %d (%s) has no apply logic", preset.ID, preset.Name)
		}
	}
	return nil
}

// Spawn gives a status to a player. A live instance with the same preset and
// parameters is refreshed to the longer countdown instead; created reports
// which case happened.
func (m *Manager) Spawn(playerID, presetID, countdown int, skipFirst bool, params Params) (st *state.Status, created bool) {
	p := m.arena.Player(playerID)
	if p == nil {
		return nil, false
	}
	apply, ok := applies[presetID]
	if !ok {
		m.violation("spawn of unknown status preset", zap.Int("preset_id", presetID))
		return nil, false
	}

	if existing := p.FindStatus(presetID, params.Float, params.Int); existing != nil {
		if countdown > existing.Countdown {
			existing.Countdown = countdown
		}
		m.logger.Debug("status refreshed",
			zap.Int("player_id", playerID),
			zap.Int("preset_id", presetID),
			zap.Int("countdown", existing.Countdown),
		)
		return existing, false
	}

	st = &state.Status{
		ID:         uuid.New(),
		PresetID:   presetID,
		Owner:      playerID,
		Countdown:  countdown,
		SkipFirst:  skipFirst,
		FloatParam: params.Float,
		IntParam:   params.Int,
	}
	p.Statuses = append(p.Statuses, st)
	m.bind(st, apply)

	m.logger.Debug("status spawned",
		zap.Int("player_id", playerID),
		zap.Int("preset_id", presetID),
		zap.Int("countdown", countdown),
		zap.Bool("skip_first", skipFirst),
	)
	return st, true
}

// bind runs the apply logic and then subscribes the countdown, so an
// instance's own turn-end callbacks run before its countdown.
func (m *Manager) bind(st *state.Status, apply applyFunc) {
	b := &binding{countdown: -1}
	m.bindings[st.ID] = b
	apply(&instance{m: m, st: st, b: b})
	b.countdown = m.bus.SubscribeTyped(rules.EventTurnEnd, func(rules.Event) {
		m.tick(st)
	})
}

func (m *Manager) tick(st *state.Status) {
	if st.SkipFirst {
		st.SkipFirst = false
		return
	}
	if st.Countdown > 1 {
		st.Countdown--
		return
	}
	if st.Countdown >= 0 {
		m.Remove(st)
	}
}

// Remove detaches an instance from its owner and tears it down. Removing an
// instance twice is a no-op.
func (m *Manager) Remove(st *state.Status) {
	if st == nil {
		return
	}
	if p := m.arena.Player(st.Owner); p != nil {
		p.DetachStatus(st)
	}
	m.unbind(st)
	m.logger.Debug("status removed",
		zap.Int("player_id", st.Owner),
		zap.Int("preset_id", st.PresetID),
	)
}

func (m *Manager) unbind(st *state.Status) {
	b, ok := m.bindings[st.ID]
	if !ok {
		return
	}
	delete(m.bindings, st.ID)
	b.once.Do(func() {
		m.bus.Unsubscribe(b.countdown)
		for _, h := range b.handles {
			m.bus.Unsubscribe(h)
		}
		for i := len(b.teardown) - 1; i >= 0; i-- {
			b.teardown[i]()
		}
	})
}

// RemoveBuffs tears down every Buff instance of a player and returns how
// many were removed.
func (m *Manager) RemoveBuffs(playerID int) int {
	return m.removeOfType(playerID, catalog.StatusBuff)
}

// RemoveDebuffs tears down every Debuff instance of a player and returns how
// many were removed.
func (m *Manager) RemoveDebuffs(playerID int) int {
	return m.removeOfType(playerID, catalog.StatusDebuff)
}

func (m *Manager) removeOfType(playerID int, t catalog.StatusType) int {
	p := m.arena.Player(playerID)
	if p == nil {
		return 0
	}
	removed := 0
	for i := len(p.Statuses) - 1; i >= 0; i-- {
		if i >= len(p.Statuses) {
			continue
		}
		st := p.Statuses[i]
		preset, err := m.cat.Status(st.PresetID)
		if err != nil || preset.Type != t {
			continue
		}
		m.Remove(st)
		removed++
	}
	return removed
}

// Strip prepares a rematch: every instance is torn down, and only Passive
// instances stay attached to their owners as data for Reapply.
func (m *Manager) Strip() {
	for _, p := range m.arena.Players() {
		for i := len(p.Statuses) - 1; i >= 0; i-- {
			st := p.Statuses[i]
			preset, err := m.cat.Status(st.PresetID)
			if err == nil && preset.Type == catalog.StatusPassive {
				m.unbind(st)
				continue
			}
			m.Remove(st)
		}
	}
}

// Reapply runs the apply logic of every attached instance that is not bound.
func (m *Manager) Reapply() {
	for _, p := range m.arena.Players() {
		for _, st := range append([]*state.Status(nil), p.Statuses...) {
			if _, bound := m.bindings[st.ID]; bound {
				continue
			}
			m.bind(st, applies[st.PresetID])
		}
	}
}

// Live returns the number of bound instances.
func (m *Manager) Live() int {
	return len(m.bindings)
}

// Verify checks the lifecycle invariants: every attached instance is bound,
// every binding is attached, no dedup key is duplicated and every countdown
// subscription is live.
func (m *Manager) Verify() error {
	attached := 0
	for _, p := range m.arena.Players() {
		seen := make(map[Params]map[int]bool)
		for _, st := range p.Statuses {
			attached++
			key := Params{Float: st.FloatParam, Int: st.IntParam}
			if seen[key] == nil {
				seen[key] = make(map[int]bool)
			}
			if seen[key][st.PresetID] {
				return fmt.Errorf("player %d holds duplicate status %d", p.ID, st.PresetID)
			}
			seen[key][st.PresetID] = true

			b, ok := m.bindings[st.ID]
			if !ok {
				return fmt.Errorf("player %d status %d is not bound", p.ID, st.PresetID)
			}
			if !m.bus.Active(b.countdown) {
				return fmt.Errorf("player %d status %d lost its countdown", p.ID, st.PresetID)
			}
		}
	}
	if attached != len(m.bindings) {
		return fmt.Errorf("%d bindings for %d attached statuses", len(m.bindings), attached)
	}
	return nil
}

// Describe renders the description of a live instance.
func (m *Manager) Describe(st *state.Status) string {
	preset, err := m.cat.Status(st.PresetID)
	if err != nil {
		return ""
	}
	a := catalog.FormatAmount(st.FloatParam)
	b := ""
	switch st.PresetID {
	case catalog.StatusCostDown:
		a, b = m.cardName(st.IntParam), catalog.FormatAmount(st.FloatParam)
	case catalog.StatusTypeCostUp:
		a, b = catalog.CardType(st.IntParam).String(), catalog.FormatAmount(st.FloatParam)
	case catalog.StatusUnderAttack:
		b = catalog.DamageType(st.IntParam).String()
	case catalog.StatusExecuteEffect:
		a = m.cardName(st.IntParam)
	}
	return preset.Render(a, b)
}

func (m *Manager) cardName(id int) string {
	if card, err := m.cat.Card(id); err == nil {
		return card.Name
	}
	return ""
}

func (m *Manager) costChanged(playerID int) {
	if m.onCostChange != nil {
		m.onCostChange(playerID)
	}
}

func (m *Manager) violation(msg string, fields ...zap.Field) {
	m.logger.Error(msg, fields...)
	if m.strict {
		panic(msg)
	}
}
