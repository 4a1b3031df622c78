package mana

import (
	"testing"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

func TestEffectiveCost(t *testing.T) {
	slash := catalog.Default().MustCard(catalog.CardSlash)

	tests := []struct {
		name     string
		setup    func(p *state.Player)
		expected float64
	}{
		{"base", func(p *state.Player) {}, 1},
		{"flat offset", func(p *state.Player) { p.ManaCostOffset = 2 }, 3},
		{"type override adds", func(p *state.Player) { p.TypeCostOverrides[catalog.TypeAttack] = 2 }, 3},
		{"card override adds", func(p *state.Player) { p.CardCostOverrides[catalog.CardSlash] = -1 }, 0},
		{"floored at zero", func(p *state.Player) { p.ManaCostOffset = -5 }, 0},
		{"type override zero", func(p *state.Player) { p.TypeCostOverrides[catalog.TypeAttack] = 0 }, Unplayable},
		{"card override zero", func(p *state.Player) { p.CardCostOverrides[catalog.CardSlash] = 0 }, Unplayable},
		{"other type ignored", func(p *state.Player) { p.TypeCostOverrides[catalog.TypeDefense] = 0 }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := state.NewPlayer(0, "a")
			tt.setup(p)
			if got := EffectiveCost(p, slash); got != tt.expected {
				t.Fatalf("expected cost %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestZeroTypeOverrideBlocksEveryAttackCard(t *testing.T) {
	cat := catalog.Default()
	p := state.NewPlayer(0, "a")
	p.Mana = 100
	p.TypeCostOverrides[catalog.TypeAttack] = 0

	for _, def := range cat.Cards() {
		cost := EffectiveCost(p, def)
		if def.Type == catalog.TypeAttack && cost >= 0 {
			t.Fatalf("expected %s to be unplayable, got cost %v", def.Name, cost)
		}
		if def.Type != catalog.TypeAttack && cost < 0 {
			t.Fatalf("expected %s to stay playable, got cost %v", def.Name, cost)
		}
	}
}

func TestAffordable(t *testing.T) {
	if !Affordable(0, -3) {
		t.Fatalf("expected zero-cost card to be affordable with negative mana")
	}
	if Affordable(2, 1) {
		t.Fatalf("expected cost 2 to be unaffordable with 1 mana")
	}
	if !Affordable(2, 2) {
		t.Fatalf("expected cost 2 to be affordable with 2 mana")
	}
	if Affordable(Unplayable, 10) {
		t.Fatalf("expected unplayable sentinel to never be affordable")
	}
}

func TestRefresh(t *testing.T) {
	cat := catalog.Default()
	p := state.NewPlayer(0, "a")
	p.Mana = 1
	p.AddToHand(catalog.CardMana)
	p.AddToHand(catalog.CardSlash)
	p.AddToHand(catalog.CardGun)

	playable := Refresh(p, cat)
	if len(playable) != 2 || playable[0] != catalog.CardMana || playable[1] != catalog.CardSlash {
		t.Fatalf("expected mana and slash playable, got %v", playable)
	}
	if p.Hand[2].Playable {
		t.Fatalf("expected gun to be unplayable with 1 mana")
	}
	if p.Hand[2].Cost != 2 {
		t.Fatalf("expected gun cost 2, got %v", p.Hand[2].Cost)
	}
}

func TestOverrideRevertRestoresPrevious(t *testing.T) {
	p := state.NewPlayer(0, "a")

	outer := SetTypeOverride(p, catalog.TypeAttack, 2)
	inner := SetTypeOverride(p, catalog.TypeAttack, 0)
	if p.TypeCostOverrides[catalog.TypeAttack] != 0 {
		t.Fatalf("expected inner override to win")
	}
	inner()
	if p.TypeCostOverrides[catalog.TypeAttack] != 2 {
		t.Fatalf("expected outer override restored, got %v", p.TypeCostOverrides[catalog.TypeAttack])
	}
	outer()
	if _, ok := p.TypeCostOverrides[catalog.TypeAttack]; ok {
		t.Fatalf("expected override removed")
	}

	revert := SetCardOverride(p, catalog.CardSkullBolt, -1)
	revert()
	if len(p.CardCostOverrides) != 0 {
		t.Fatalf("expected card overrides empty, got %v", p.CardCostOverrides)
	}
}

func TestOverridesRemovedOutOfOrder(t *testing.T) {
	p := state.NewPlayer(0, "a")
	p.TypeCostOverrides[catalog.TypeUtility] = 1

	costUp := SetTypeOverride(p, catalog.TypeAttack, 2)
	ban := SetTypeOverride(p, catalog.TypeAttack, 0)

	costUp()
	if v, ok := p.TypeCostOverrides[catalog.TypeAttack]; !ok || v != 0 {
		t.Fatalf("expected the ban to stay while it is live, got %v (present %v)", v, ok)
	}
	ban()
	if _, ok := p.TypeCostOverrides[catalog.TypeAttack]; ok {
		t.Fatalf("expected no attack override, got %v", p.TypeCostOverrides)
	}
	if len(p.TypeOverrideStacks) != 0 {
		t.Fatalf("expected override stacks empty, got %v", p.TypeOverrideStacks)
	}

	utility := SetTypeOverride(p, catalog.TypeUtility, 0)
	utility()
	utility()
	if p.TypeCostOverrides[catalog.TypeUtility] != 1 {
		t.Fatalf("expected the pre-existing utility override back, got %v", p.TypeCostOverrides[catalog.TypeUtility])
	}

	first := SetCardOverride(p, catalog.CardSkullBolt, 3)
	second := SetCardOverride(p, catalog.CardSkullBolt, 0)
	first()
	if p.CardCostOverrides[catalog.CardSkullBolt] != 0 {
		t.Fatalf("expected newest card override to stay, got %v", p.CardCostOverrides[catalog.CardSkullBolt])
	}
	second()
	if len(p.CardCostOverrides) != 0 {
		t.Fatalf("expected card overrides empty, got %v", p.CardCostOverrides)
	}
}
