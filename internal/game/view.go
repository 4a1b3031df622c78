package game

import (
	"sort"

	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// MatchView is the state of a match as one player may see it.
type MatchView struct {
	ID       string       `json:"id"`
	Game     int          `json:"game"`
	Turn     int          `json:"turn"`
	Phase    string       `json:"phase"`
	Mode     string       `json:"mode"`
	Pool     string       `json:"pool"`
	Diviners bool         `json:"diviners"`
	Players  []PlayerView `json:"players"`
	// Hand and Targets belong to the viewer only.
	Hand    []CardView `json:"hand,omitempty"`
	Pending *CardView  `json:"pending,omitempty"`
	Targets []int      `json:"targets,omitempty"`
	Last    *Result    `json:"last_result,omitempty"`
}

// PlayerView is one seat of a MatchView. Committed cards stay hidden until
// the round is revealed.
type PlayerView struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Health     float64      `json:"health"`
	Mana       float64      `json:"mana"`
	Status     string       `json:"status"`
	Targetable bool         `json:"targetable"`
	Committed  bool         `json:"committed"`
	DivinerID  int          `json:"diviner_id"`
	Left       bool         `json:"left"`
	Statuses   []StatusView `json:"statuses"`
	Record     Record       `json:"record"`
}

// StatusView describes a live status instance.
type StatusView struct {
	PresetID    int    `json:"preset_id"`
	Name        string `json:"name"`
	Countdown   int    `json:"countdown"`
	Description string `json:"description"`
}

// CardView is a card in hand, priced for its holder.
type CardView struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Playable    bool    `json:"playable"`
	Targets     bool    `json:"targets"`
	Priority    string  `json:"priority"`
	Type        string  `json:"type"`
}

// View renders the match for viewer. Pass state.NoPlayer for a spectator
// view without a hand.
func (m *Match) View(viewer int) MatchView {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := MatchView{
		ID:       m.id,
		Game:     m.game,
		Turn:     m.turns.TurnNumber(),
		Phase:    m.turns.CurrentPhase().String(),
		Mode:     m.settings.Mode.String(),
		Pool:     string(m.dealer.Pool()),
		Diviners: m.settings.Diviners,
		Players:  make([]PlayerView, 0, m.arena.Len()),
		Last:     m.last,
	}

	for _, p := range m.arena.Players() {
		pv := PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Health:     p.Health,
			Mana:       p.Mana,
			Status:     p.Status.String(),
			Targetable: p.Targetable,
			Committed:  p.Played != nil,
			DivinerID:  p.DivinerID,
			Left:       p.Left,
			Statuses:   make([]StatusView, 0, len(p.Statuses)),
			Record:     m.records.Of(p.ID),
		}
		for _, st := range p.Statuses {
			sv := StatusView{
				PresetID:    st.PresetID,
				Countdown:   st.Countdown,
				Description: m.statuses.Describe(st),
			}
			if preset, err := m.cat.Status(st.PresetID); err == nil {
				sv.Name = preset.Name
			}
			pv.Statuses = append(pv.Statuses, sv)
		}
		v.Players = append(v.Players, pv)
	}

	p := m.arena.Player(viewer)
	if p == nil {
		return v
	}
	v.Hand = m.handView(p.Hand)
	if p.Pending != nil {
		cv := m.cardView(state.HandSlot{CardID: p.Pending.ID, Cost: p.Pending.Cost, Playable: true})
		v.Pending = &cv
		v.Targets = m.targets()
		if len(v.Targets) == 0 {
			v.Targets = []int{p.ID}
		}
	}
	return v
}

// handView lists the hand cheapest first, as it is shown to players.
func (m *Match) handView(hand []state.HandSlot) []CardView {
	out := make([]CardView, 0, len(hand))
	for _, slot := range hand {
		out = append(out, m.cardView(slot))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

func (m *Match) cardView(slot state.HandSlot) CardView {
	cv := CardView{ID: slot.CardID, Cost: slot.Cost, Playable: slot.Playable}
	if def, err := m.cat.Card(slot.CardID); err == nil {
		cv.Name = def.Name
		cv.Description = def.Description
		cv.Targets = def.Targets
		cv.Priority = def.Priority.String()
		cv.Type = def.Type.String()
	}
	return cv
}
