package state

import (
	"errors"
	"fmt"
)

// ErrUnknownPlayer is returned for ids outside the arena.
var ErrUnknownPlayer = errors.New("unknown player")

// Arena owns every player of a match. Ids are stable slice indexes.
type Arena struct {
	players []*Player
}

// NewArena seats one player per name, with ids in order.
func NewArena(names ...string) *Arena {
	a := &Arena{players: make([]*Player, 0, len(names))}
	for _, name := range names {
		a.Add(name)
	}
	return a
}

// Add seats a new player and returns it.
func (a *Arena) Add(name string) *Player {
	p := NewPlayer(len(a.players), name)
	a.players = append(a.players, p)
	return p
}

// Player returns the player with the given id, or nil.
func (a *Arena) Player(id int) *Player {
	if id < 0 || id >= len(a.players) {
		return nil
	}
	return a.players[id]
}

// Lookup is Player with an error for unknown ids.
func (a *Arena) Lookup(id int) (*Player, error) {
	if p := a.Player(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
}

// Players returns every player in seat order.
func (a *Arena) Players() []*Player {
	return append([]*Player(nil), a.players...)
}

// Alive returns the players not marked dead, in seat order.
func (a *Arena) Alive() []*Player {
	out := make([]*Player, 0, len(a.players))
	for _, p := range a.players {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of seats.
func (a *Arena) Len() int {
	return len(a.players)
}

// PlayedCardOf returns the committed card of a player, or nil.
func (a *Arena) PlayedCardOf(id int) *PlayedCard {
	if p := a.Player(id); p != nil {
		return p.Played
	}
	return nil
}
