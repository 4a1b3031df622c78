package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Snapshot is a copy of the observable match state at a round boundary.
type Snapshot struct {
	MatchID   string           `json:"match_id"`
	Turn      int              `json:"turn"`
	Phase     string           `json:"phase"`
	Timestamp time.Time        `json:"timestamp"`
	Players   []PlayerSnapshot `json:"players"`
}

// PlayerSnapshot is one seat of a Snapshot.
type PlayerSnapshot struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Health     float64          `json:"health"`
	Mana       float64          `json:"mana"`
	Status     string           `json:"status"`
	DivinerID  int              `json:"diviner_id"`
	PlayedCard int              `json:"played_card"`
	Target     int              `json:"target"`
	Targetable bool             `json:"targetable"`
	Hand       []int            `json:"hand"`
	Statuses   []StatusSnapshot `json:"statuses"`
}

// StatusSnapshot is one live status instance of a PlayerSnapshot.
type StatusSnapshot struct {
	ID         uuid.UUID `json:"id"`
	PresetID   int       `json:"preset_id"`
	Countdown  int       `json:"countdown"`
	FloatParam float64   `json:"float_param"`
	IntParam   int       `json:"int_param"`
}

func snapshotPlayer(p *state.Player) PlayerSnapshot {
	ps := PlayerSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Health:     p.Health,
		Mana:       p.Mana,
		Status:     p.Status.String(),
		DivinerID:  p.DivinerID,
		PlayedCard: state.NoPlayer,
		Target:     state.NoPlayer,
		Targetable: p.Targetable,
		Hand:       make([]int, 0, len(p.Hand)),
		Statuses:   make([]StatusSnapshot, 0, len(p.Statuses)),
	}
	if p.Played != nil {
		ps.PlayedCard = p.Played.ID
		ps.Target = p.Played.Target
	}
	for _, slot := range p.Hand {
		ps.Hand = append(ps.Hand, slot.CardID)
	}
	for _, st := range p.Statuses {
		ps.Statuses = append(ps.Statuses, StatusSnapshot{
			ID:         st.ID,
			PresetID:   st.PresetID,
			Countdown:  st.Countdown,
			FloatParam: st.FloatParam,
			IntParam:   st.IntParam,
		})
	}
	return ps
}

func takeSnapshot(matchID string, turn int, phase string, arena *state.Arena) *Snapshot {
	snap := &Snapshot{
		MatchID:   matchID,
		Turn:      turn,
		Phase:     phase,
		Timestamp: time.Now(),
		Players:   make([]PlayerSnapshot, 0, arena.Len()),
	}
	for _, p := range arena.Players() {
		snap.Players = append(snap.Players, snapshotPlayer(p))
	}
	return snap
}
