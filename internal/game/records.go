package game

import "github.com/tom-jt/Diviners-Gambit/internal/game/state"

// Record is a seat's tally across the games of a match.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Records tallies game outcomes per player id.
type Records struct {
	byPlayer map[int]Record
}

// NewRecords creates an empty tally.
func NewRecords() *Records {
	return &Records{byPlayer: make(map[int]Record)}
}

// Finish records one game. A winner of state.NoPlayer is a tie for every
// seat.
func (r *Records) Finish(players []*state.Player, winner int) {
	for _, p := range players {
		rec := r.byPlayer[p.ID]
		switch {
		case winner == state.NoPlayer:
			rec.Ties++
		case p.ID == winner:
			rec.Wins++
		default:
			rec.Losses++
		}
		r.byPlayer[p.ID] = rec
	}
}

// Of returns the tally of one player.
func (r *Records) Of(playerID int) Record {
	return r.byPlayer[playerID]
}

// Games returns the number of games recorded for a player.
func (rec Record) Games() int {
	return rec.Wins + rec.Losses + rec.Ties
}
