// Package watchers holds the per-round statistics watchers fed from the
// match event bus.
package watchers

import (
	"maps"

	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
)

// CardsPlayedWatcher tracks cards whose effects were dispatched, per owner.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	cardsPlayed map[int][]int // playerID -> card ids
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	w := &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		cardsPlayed: make(map[int][]int),
	}
	w.SetKey("CardsPlayedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed || event.Card == nil {
		return
	}
	owner := event.Card.Owner
	w.cardsPlayed[owner] = append(w.cardsPlayed[owner], event.Card.ID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsPlayed = make(map[int][]int)
}

// GetCardsPlayed returns the card ids played by a player.
func (w *CardsPlayedWatcher) GetCardsPlayed(playerID int) []int {
	return w.cardsPlayed[playerID]
}

// GetCount returns the number of cards played by a player.
func (w *CardsPlayedWatcher) GetCount(playerID int) int {
	return len(w.cardsPlayed[playerID])
}

// Copy creates a copy of this watcher.
func (w *CardsPlayedWatcher) Copy() rules.Watcher {
	cp := NewCardsPlayedWatcher()
	cp.SetCondition(w.ConditionMet())
	for k, v := range w.cardsPlayed {
		cp.cardsPlayed[k] = append([]int(nil), v...)
	}
	return cp
}

// DamageTakenWatcher sums health lost and gained per player.
type DamageTakenWatcher struct {
	*rules.BaseWatcher
	lost   map[int]float64
	gained map[int]float64
}

// NewDamageTakenWatcher creates a new damage taken watcher.
func NewDamageTakenWatcher() *DamageTakenWatcher {
	w := &DamageTakenWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		lost:        make(map[int]float64),
		gained:      make(map[int]float64),
	}
	w.SetKey("DamageTakenWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *DamageTakenWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventHealthChanged {
		return
	}
	switch {
	case event.Amount < 0:
		w.lost[event.PlayerID] -= event.Amount
		w.SetCondition(true)
	case event.Amount > 0:
		w.gained[event.PlayerID] += event.Amount
	}
}

// Reset clears the watcher's state.
func (w *DamageTakenWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.lost = make(map[int]float64)
	w.gained = make(map[int]float64)
}

// GetDamageTaken returns the health a player lost.
func (w *DamageTakenWatcher) GetDamageTaken(playerID int) float64 {
	return w.lost[playerID]
}

// GetHealing returns the health a player gained.
func (w *DamageTakenWatcher) GetHealing(playerID int) float64 {
	return w.gained[playerID]
}

// Copy creates a copy of this watcher.
func (w *DamageTakenWatcher) Copy() rules.Watcher {
	cp := NewDamageTakenWatcher()
	cp.SetCondition(w.ConditionMet())
	cp.lost = maps.Clone(w.lost)
	cp.gained = maps.Clone(w.gained)
	return cp
}

// DefenseWatcher counts defense checks by outcome. Landed and blocked are
// keyed by the attacking player, blocks made by the defending player.
type DefenseWatcher struct {
	*rules.BaseWatcher
	landed  map[int]int
	blocked map[int]int
	blocks  map[int]int
}

// NewDefenseWatcher creates a new defense watcher.
func NewDefenseWatcher() *DefenseWatcher {
	w := &DefenseWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		landed:      make(map[int]int),
		blocked:     make(map[int]int),
		blocks:      make(map[int]int),
	}
	w.SetKey("DefenseWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *DefenseWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDefenseChecked {
		return
	}
	if event.Flag {
		w.landed[event.SourceID]++
		return
	}
	w.blocked[event.SourceID]++
	w.blocks[event.PlayerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DefenseWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.landed = make(map[int]int)
	w.blocked = make(map[int]int)
	w.blocks = make(map[int]int)
}

// GetLanded returns how many of a player's effects got through.
func (w *DefenseWatcher) GetLanded(playerID int) int {
	return w.landed[playerID]
}

// GetBlocked returns how many of a player's effects were stopped.
func (w *DefenseWatcher) GetBlocked(playerID int) int {
	return w.blocked[playerID]
}

// GetBlocks returns how many effects a player stopped.
func (w *DefenseWatcher) GetBlocks(playerID int) int {
	return w.blocks[playerID]
}

// Copy creates a copy of this watcher.
func (w *DefenseWatcher) Copy() rules.Watcher {
	cp := NewDefenseWatcher()
	cp.SetCondition(w.ConditionMet())
	cp.landed = maps.Clone(w.landed)
	cp.blocked = maps.Clone(w.blocked)
	cp.blocks = maps.Clone(w.blocks)
	return cp
}

// PlayersDiedWatcher records players marked dead, in order.
type PlayersDiedWatcher struct {
	*rules.BaseWatcher
	died []int
}

// NewPlayersDiedWatcher creates a new players died watcher.
func NewPlayersDiedWatcher() *PlayersDiedWatcher {
	w := &PlayersDiedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
	}
	w.SetKey("PlayersDiedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *PlayersDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventPlayerDied {
		return
	}
	w.died = append(w.died, event.PlayerID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PlayersDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.died = nil
}

// GetDied returns the players that died, in order of death detection.
func (w *PlayersDiedWatcher) GetDied() []int {
	return w.died
}

// Copy creates a copy of this watcher.
func (w *PlayersDiedWatcher) Copy() rules.Watcher {
	cp := NewPlayersDiedWatcher()
	cp.SetCondition(w.ConditionMet())
	cp.died = append([]int(nil), w.died...)
	return cp
}

// RoundStats is the per-player summary of one round.
type RoundStats struct {
	CardsPlayed int     `json:"cards_played"`
	DamageTaken float64 `json:"damage_taken"`
	Healing     float64 `json:"healing"`
	Landed      int     `json:"landed"`
	Blocked     int     `json:"blocked"`
	Blocks      int     `json:"blocks"`
	Died        bool    `json:"died"`
}

// Set bundles the standard watchers of a match.
type Set struct {
	Cards   *CardsPlayedWatcher
	Damage  *DamageTakenWatcher
	Defense *DefenseWatcher
	Deaths  *PlayersDiedWatcher
}

// NewSet creates the standard watchers and registers them.
func NewSet(registry *rules.WatcherRegistry) *Set {
	s := &Set{
		Cards:   NewCardsPlayedWatcher(),
		Damage:  NewDamageTakenWatcher(),
		Defense: NewDefenseWatcher(),
		Deaths:  NewPlayersDiedWatcher(),
	}
	registry.AddWatcher(s.Cards)
	registry.AddWatcher(s.Damage)
	registry.AddWatcher(s.Defense)
	registry.AddWatcher(s.Deaths)
	return s
}

// Stats summarises the round so far for the given players.
func (s *Set) Stats(playerIDs []int) map[int]RoundStats {
	out := make(map[int]RoundStats, len(playerIDs))
	died := make(map[int]bool)
	for _, id := range s.Deaths.GetDied() {
		died[id] = true
	}
	for _, id := range playerIDs {
		out[id] = RoundStats{
			CardsPlayed: s.Cards.GetCount(id),
			DamageTaken: s.Damage.GetDamageTaken(id),
			Healing:     s.Damage.GetHealing(id),
			Landed:      s.Defense.GetLanded(id),
			Blocked:     s.Defense.GetBlocked(id),
			Blocks:      s.Defense.GetBlocks(id),
			Died:        died[id],
		}
	}
	return out
}
