// Package catalog holds the read-only card and status reference data.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCard is returned for ids outside the card table.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownStatus is returned for ids outside the status table.
	ErrUnknownStatus = errors.New("unknown status preset")
)

// Catalog is an id-indexed view over the card and status tables.
type Catalog struct {
	cards    []Card
	statuses []StatusPreset
}

// Default returns the catalog of the standard game.
func Default() *Catalog {
	return &Catalog{cards: cards, statuses: statuses}
}

// New builds a catalog from explicit tables. Ids must equal slice indexes.
func New(cardTable []Card, statusTable []StatusPreset) (*Catalog, error) {
	for i, c := range cardTable {
		if c.ID != i {
			return nil, fmt.Errorf("card at index %d has id %d", i, c.ID)
		}
	}
	for i, s := range statusTable {
		if s.ID != i {
			return nil, fmt.Errorf("status at index %d has id %d", i, s.ID)
		}
	}
	return &Catalog{
		cards:    append([]Card(nil), cardTable...),
		statuses: append([]StatusPreset(nil), statusTable...),
	}, nil
}

// Card returns the definition with the given id.
func (c *Catalog) Card(id int) (Card, error) {
	if id < 0 || id >= len(c.cards) {
		return Card{}, fmt.Errorf("%w: %d", ErrUnknownCard, id)
	}
	return c.cards[id], nil
}

// MustCard is Card for ids known to exist.
func (c *Catalog) MustCard(id int) Card {
	card, err := c.Card(id)
	if err != nil {
		panic(err)
	}
	return card
}

// Cards returns a copy of every card definition in id order.
func (c *Catalog) Cards() []Card {
	return append([]Card(nil), c.cards...)
}

// CardCount returns the number of card definitions.
func (c *Catalog) CardCount() int {
	return len(c.cards)
}

// Status returns the status preset with the given id.
func (c *Catalog) Status(id int) (StatusPreset, error) {
	if id < 0 || id >= len(c.statuses) {
		return StatusPreset{}, fmt.Errorf("%w: %d", ErrUnknownStatus, id)
	}
	return c.statuses[id], nil
}

// Statuses returns a copy of every status preset in id order.
func (c *Catalog) Statuses() []StatusPreset {
	return append([]StatusPreset(nil), c.statuses...)
}

// ByGeneration returns the cards of one generation in id order.
func (c *Catalog) ByGeneration(gen int) []Card {
	out := make([]Card, 0, 8)
	for _, card := range c.cards {
		if card.Generation == gen {
			out = append(out, card)
		}
	}
	return out
}

// DivinerAbilities returns the active ability cards of a diviner. Abilities
// are the consecutive ability-generation ids following the diviner itself.
func (c *Catalog) DivinerAbilities(divinerID int) []Card {
	out := make([]Card, 0, 4)
	for id := divinerID + 1; id < len(c.cards); id++ {
		if c.cards[id].Generation != GenerationDivinerAbility {
			break
		}
		out = append(out, c.cards[id])
	}
	return out
}

// StatusesOfType returns the ids of every preset with the given polarity.
func (c *Catalog) StatusesOfType(t StatusType) []int {
	out := make([]int, 0, 8)
	for _, s := range c.statuses {
		if s.Type == t {
			out = append(out, s.ID)
		}
	}
	return out
}
