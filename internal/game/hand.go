package game

import (
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// Dealer fills hands from the catalog according to the card pool.
type Dealer struct {
	cat  *catalog.Catalog
	pool settings.Pool
}

// NewDealer creates a dealer for pool. Invalid pools fall back to the
// default pool.
func NewDealer(cat *catalog.Catalog, pool settings.Pool) *Dealer {
	return &Dealer{cat: cat, pool: pool.Normalize()}
}

// Pool returns the pool the dealer deals from.
func (d *Dealer) Pool() settings.Pool {
	return d.pool
}

// DrawGeneration adds every card of one generation to p's hand.
func (d *Dealer) DrawGeneration(p *state.Player, gen int) {
	for _, card := range d.cat.ByGeneration(gen) {
		p.AddToHand(card.ID)
	}
}

// DealDiviners replaces p's hand with the diviner picks.
func (d *Dealer) DealDiviners(p *state.Player) {
	p.Hand = nil
	d.DrawGeneration(p, catalog.GenerationDiviner)
}

// Deal replaces p's hand with the ability cards of their diviner, if any,
// followed by every enabled generation of the pool.
func (d *Dealer) Deal(p *state.Player) {
	p.Hand = nil
	if p.DivinerID != state.NoPlayer {
		for _, card := range d.cat.DivinerAbilities(p.DivinerID) {
			p.AddToHand(card.ID)
		}
	}
	for _, gen := range d.pool.Generations() {
		d.DrawGeneration(p, gen)
	}
}

// Refill returns a revealed card to its owner's hand. Diviners, diviner
// abilities and test-only cards are single use.
func (d *Dealer) Refill(p *state.Player, card *state.PlayedCard) bool {
	if card == nil || !card.IsDraftable() {
		return false
	}
	p.AddToHand(card.ID)
	return true
}
