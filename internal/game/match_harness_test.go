package game

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
)

// MatchHarness drives a strict match with a recording sink.
type MatchHarness struct {
	t      *testing.T
	match  *Match
	sink   *RecordingSink
	events []rules.Event
}

// NewMatchHarness creates a started match for the given players.
func NewMatchHarness(t *testing.T, cfg settings.Settings, players ...string) *MatchHarness {
	t.Helper()
	h := newUnstartedHarness(t, cfg, Options{}, players...)
	h.start()
	return h
}

func newUnstartedHarness(t *testing.T, cfg settings.Settings, opts Options, players ...string) *MatchHarness {
	t.Helper()
	h := &MatchHarness{t: t, sink: NewRecordingSink(2000)}

	opts.Settings = cfg
	opts.Seed = 42
	opts.Sink = h.sink
	opts.Logger = zaptest.NewLogger(t)
	opts.Strict = true

	m, err := NewMatch("match-test", players, opts)
	if err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	h.match = m
	return h
}

func (h *MatchHarness) start() {
	h.t.Helper()
	if err := h.match.Start(); err != nil {
		h.t.Fatalf("failed to start match: %v", err)
	}
	h.record()
}

// record captures every bus event of the current game.
func (h *MatchHarness) record() {
	h.match.bus.Subscribe(func(e rules.Event) {
		h.events = append(h.events, e)
	})
}

// EventsOf returns the captured events of one type.
func (h *MatchHarness) EventsOf(eventType rules.EventType) []rules.Event {
	var out []rules.Event
	for _, e := range h.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Player returns the live player record.
func (h *MatchHarness) Player(id int) *state.Player {
	h.t.Helper()
	p := h.match.arena.Player(id)
	if p == nil {
		h.t.Fatalf("no player %d", id)
	}
	return p
}

// Play commits a non-targeting card.
func (h *MatchHarness) Play(player, cardID int) {
	h.t.Helper()
	if err := h.match.PlayCard(player, cardID); err != nil {
		h.t.Fatalf("player %d failed to play card %d: %v", player, cardID, err)
	}
}

// PlayAt commits a targeting card and chooses its target.
func (h *MatchHarness) PlayAt(player, cardID, target int) {
	h.t.Helper()
	h.Play(player, cardID)
	if err := h.match.ChooseTarget(player, target); err != nil {
		h.t.Fatalf("player %d failed to target %d: %v", player, target, err)
	}
}

// GiveCard puts an extra card into a hand.
func (h *MatchHarness) GiveCard(player, cardID int) {
	h.t.Helper()
	h.Player(player).AddToHand(cardID)
	h.match.refreshHand(player)
}

// SetHealth and SetMana overwrite resources through the ledger.
func (h *MatchHarness) SetHealth(player int, health float64) {
	h.t.Helper()
	if !h.match.ledger.ChangeHealth(player, health, true) {
		h.t.Fatalf("failed to set health of player %d", player)
	}
}

func (h *MatchHarness) SetMana(player int, mana float64) {
	h.t.Helper()
	if !h.match.ledger.ChangeMana(player, mana, true) {
		h.t.Fatalf("failed to set mana of player %d", player)
	}
	h.match.refreshHand(player)
}

// Spawn attaches a status instance.
func (h *MatchHarness) Spawn(player, presetID, countdown int, skipFirst bool, params status.Params) *state.Status {
	h.t.Helper()
	st, _ := h.match.statuses.Spawn(player, presetID, countdown, skipFirst, params)
	if st == nil {
		h.t.Fatalf("failed to spawn status %d on player %d", presetID, player)
	}
	return st
}

// Verify checks the status lifecycle invariants.
func (h *MatchHarness) Verify() {
	h.t.Helper()
	if err := h.match.statuses.Verify(); err != nil {
		h.t.Fatalf("status invariants broken: %v", err)
	}
}

// Texts returns the text updates sent so far.
func (h *MatchHarness) Texts() []string {
	var out []string
	for _, n := range h.sink.OfType(NotifyTextUpdated) {
		out = append(out, n.Data["text"].(string))
	}
	return out
}

func handIDs(p *state.Player) []int {
	out := make([]int, 0, len(p.Hand))
	for _, slot := range p.Hand {
		out = append(out, slot.CardID)
	}
	return out
}
