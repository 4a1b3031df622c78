package effects

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/ledger"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
)

const (
	cardReflectMirror = 14
	cardMagicShield   = 27
	cardPetrify       = 34
	cardBalloonify    = 55
	cardHouse         = 68
)

type fixture struct {
	d        *Dispatcher
	arena    *state.Arena
	bus      *rules.EventBus
	statuses *status.Manager
	checks   []rules.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	arena := state.NewArena("alice", "bob", "carol")
	for _, p := range arena.Players() {
		p.Health = 3
		p.Mana = 2
	}
	bus := rules.NewEventBus()
	logger := zaptest.NewLogger(t)
	cat := catalog.Default()
	l := ledger.New(arena, bus, logger)
	statuses := status.NewManager(cat, arena, bus, l, logger)
	statuses.SetStrict(true)
	d := New(cat, arena, bus, l, statuses, rand.New(rand.NewPCG(7, 7)), logger)

	f := &fixture{d: d, arena: arena, bus: bus, statuses: statuses}
	bus.SubscribeTyped(rules.EventDefenseChecked, func(evt rules.Event) {
		f.checks = append(f.checks, evt)
	})
	return f
}

// play commits a card for a player and returns it.
func (f *fixture) play(owner, cardID, target int) *state.PlayedCard {
	card := state.NewPlayedCard(catalog.Default().MustCard(cardID), owner)
	card.Target = target
	f.arena.Player(owner).Played = card
	return card
}

func (f *fixture) health(id int) float64 {
	return f.arena.Player(id).Health
}

func TestValidateCoversCatalog(t *testing.T) {
	require.NoError(t, Validate(catalog.Default()))

	cat := catalog.Default()
	extra := append(cat.Cards(), catalog.Card{ID: cat.CardCount(), Name: "Mystery"})
	bigger, err := catalog.New(extra, cat.Statuses())
	require.NoError(t, err)
	assert.Error(t, Validate(bigger))
}

func TestSlashLandsOnUndefended(t *testing.T) {
	f := newFixture(t)
	slash := f.play(0, catalog.CardSlash, 1)
	f.play(1, catalog.CardMana, state.NoPlayer)

	assert.True(t, f.d.Execute(slash))
	assert.Equal(t, 2.0, f.health(1))

	require.Len(t, f.checks, 1)
	assert.True(t, f.checks[0].Flag)
	assert.Equal(t, 1, f.checks[0].PlayerID)
	assert.Equal(t, 0, f.checks[0].SourceID)
}

func TestDeflectBlocksSlash(t *testing.T) {
	f := newFixture(t)
	slash := f.play(0, catalog.CardSlash, 1)
	f.play(1, catalog.CardDeflect, state.NoPlayer)

	assert.False(t, f.d.Execute(slash))
	assert.Equal(t, 3.0, f.health(1))

	require.Len(t, f.checks, 1)
	assert.False(t, f.checks[0].Flag)
	assert.Equal(t, catalog.CardDeflect, f.checks[0].Card.ID)
}

func TestDeflectDoesNotStopGun(t *testing.T) {
	f := newFixture(t)
	gun := f.play(0, catalog.CardGun, 1)
	f.play(1, catalog.CardDeflect, state.NoPlayer)

	assert.True(t, f.d.Execute(gun))
	assert.Equal(t, 2.0, f.health(1))
}

func TestNegatedDefenderCannotBlock(t *testing.T) {
	f := newFixture(t)
	slash := f.play(0, catalog.CardSlash, 1)
	f.play(1, catalog.CardDeflect, state.NoPlayer)
	f.arena.Player(1).CanUseEffects = false

	assert.True(t, f.d.Execute(slash))
	assert.Equal(t, 2.0, f.health(1))
}

func TestAttackConflict(t *testing.T) {
	t.Run("pricier counter attack blocks", func(t *testing.T) {
		f := newFixture(t)
		slash := f.play(0, catalog.CardSlash, 1)
		f.play(1, catalog.CardGun, 0)

		assert.False(t, f.d.Execute(slash))
		assert.Equal(t, 3.0, f.health(1))
	})

	t.Run("cheaper counter attack does not block", func(t *testing.T) {
		f := newFixture(t)
		f.play(0, catalog.CardSlash, 1)
		gun := f.play(1, catalog.CardGun, 0)

		assert.True(t, f.d.Execute(gun))
		assert.Equal(t, 2.0, f.health(0))
	})

	t.Run("attack aimed elsewhere does not block", func(t *testing.T) {
		f := newFixture(t)
		slash := f.play(0, catalog.CardSlash, 1)
		f.play(1, catalog.CardGun, 2)

		assert.True(t, f.d.Execute(slash))
		assert.Equal(t, 2.0, f.health(1))
	})

	t.Run("untargeted attack blocks equal cost", func(t *testing.T) {
		f := newFixture(t)
		gun := f.play(0, catalog.CardGun, 1)
		f.play(1, catalog.CardSweep, state.NoPlayer)

		assert.False(t, f.d.Execute(gun))
		assert.Equal(t, 3.0, f.health(1))
	})
}

func TestReflectMirrorTurnsAttackOnOwner(t *testing.T) {
	f := newFixture(t)
	slash := f.play(0, catalog.CardSlash, 1)
	f.play(1, cardReflectMirror, state.NoPlayer)

	assert.False(t, f.d.Execute(slash))
	assert.Equal(t, 3.0, f.health(1))
	assert.Equal(t, 2.0, f.health(0))
	assert.Equal(t, 0, slash.Target, "reflected card keeps its new target")
	assert.Equal(t, 0, f.d.resolving.GetDepth())
}

func TestReflectMirrorWithoutAttacker(t *testing.T) {
	f := newFixture(t)
	f.play(1, cardReflectMirror, state.NoPlayer)

	assert.True(t, f.d.Defend(1, catalog.DamageGun))
	assert.Equal(t, 3.0, f.health(1))
}

func TestPetrify(t *testing.T) {
	t.Run("attacker gets attack cost up", func(t *testing.T) {
		f := newFixture(t)
		slash := f.play(0, catalog.CardSlash, 1)
		f.play(1, cardPetrify, state.NoPlayer)

		assert.True(t, f.d.Execute(slash), "petrify never blocks")
		assert.Equal(t, 2.0, f.health(1))

		st := f.arena.Player(0).FindStatus(catalog.StatusTypeCostUp, 2, int(catalog.TypeAttack))
		require.NotNil(t, st)
		assert.Equal(t, 2, st.Countdown)
		assert.Equal(t, 2.0, f.arena.Player(0).TypeCostOverrides[catalog.TypeAttack])
	})

	t.Run("no attacker spawns nothing", func(t *testing.T) {
		f := newFixture(t)
		f.play(1, cardPetrify, state.NoPlayer)

		assert.False(t, f.d.Defend(1, catalog.DamageSlash))
		for _, p := range f.arena.Players() {
			assert.Empty(t, p.Statuses)
		}
	})
}

func TestBalloonify(t *testing.T) {
	f := newFixture(t)
	fireball := f.play(0, catalog.CardFireball, 1)
	f.play(1, cardBalloonify, state.NoPlayer)

	assert.False(t, f.d.Execute(fireball))
	assert.Equal(t, 3.0, f.health(1))
	assert.NotNil(t, f.arena.Player(0).FindStatus(catalog.StatusVulnerable, 2, -1))

	assert.False(t, f.d.Defend(1, catalog.DamageGun))
	assert.True(t, f.d.Defend(1, catalog.DamageMagic))
}

func TestHouseBlocksAllAndCleanses(t *testing.T) {
	f := newFixture(t)
	f.statuses.Spawn(1, catalog.StatusWithering, 2, false, status.Float(1))
	f.statuses.Spawn(1, catalog.StatusWarded, 2, false, status.Float(1))
	fireball := f.play(0, catalog.CardFireball, 1)
	house := f.play(1, cardHouse, state.NoPlayer)

	assert.False(t, f.d.Execute(fireball))
	assert.Equal(t, 3.0, f.health(1))
	require.Len(t, f.arena.Player(1).Statuses, 1)
	assert.Equal(t, catalog.StatusWarded, f.arena.Player(1).Statuses[0].PresetID)

	assert.True(t, f.d.Execute(house), "house executed directly still reports success")
}

func TestSweepLandsOnAny(t *testing.T) {
	f := newFixture(t)
	sweep := f.play(0, catalog.CardSweep, state.NoPlayer)
	f.play(1, catalog.CardDeflect, state.NoPlayer)
	f.play(2, catalog.CardMana, state.NoPlayer)

	assert.True(t, f.d.Execute(sweep))
	assert.Equal(t, 3.0, f.health(1))
	assert.Equal(t, 2.0, f.health(2))
	assert.Equal(t, 3.0, f.health(0))
	assert.Len(t, f.checks, 2)
}

func TestSweepFullyBlocked(t *testing.T) {
	f := newFixture(t)
	sweep := f.play(0, catalog.CardSweep, state.NoPlayer)
	f.play(1, catalog.CardDeflect, state.NoPlayer)
	f.play(2, catalog.CardDeflect, state.NoPlayer)

	assert.False(t, f.d.Execute(sweep))
}

func TestDeadPlayersAreSkipped(t *testing.T) {
	f := newFixture(t)
	sweep := f.play(0, catalog.CardSweep, state.NoPlayer)
	f.play(2, catalog.CardMana, state.NoPlayer)
	f.arena.Player(1).Status = state.Dead

	assert.True(t, f.d.Execute(sweep))
	assert.Equal(t, 3.0, f.health(1))
	assert.Equal(t, 2.0, f.health(2))
	assert.Len(t, f.checks, 1)
}

func TestCleanseReportsRemoval(t *testing.T) {
	f := newFixture(t)
	f.statuses.Spawn(0, catalog.StatusWithering, 2, false, status.Float(1))
	f.statuses.Spawn(0, catalog.StatusCrippled, 2, false, status.Float(1))
	f.statuses.Spawn(0, catalog.StatusWarded, 2, false, status.Float(1))
	cleanse := f.play(0, catalog.CardCleanse, state.NoPlayer)

	assert.True(t, f.d.Execute(cleanse))
	require.Len(t, f.arena.Player(0).Statuses, 1)
	assert.Equal(t, catalog.StatusWarded, f.arena.Player(0).Statuses[0].PresetID)

	assert.False(t, f.d.Execute(cleanse), "nothing left to cleanse")
}

func TestEnrageAddsToAttackDamage(t *testing.T) {
	f := newFixture(t)
	f.statuses.Spawn(0, catalog.StatusEnrage, -1, false, status.Float(1))
	slash := f.play(0, catalog.CardSlash, 1)
	f.play(1, catalog.CardMana, state.NoPlayer)

	assert.True(t, f.d.Execute(slash))
	assert.Equal(t, 1.0, f.health(1))
}

func TestOneShotIgnoresDefense(t *testing.T) {
	f := newFixture(t)
	shot := f.play(0, catalog.CardOneShot, 1)
	f.play(1, cardMagicShield, state.NoPlayer)

	assert.True(t, f.d.Execute(shot))
	assert.LessOrEqual(t, f.health(1), 0.0)
	assert.Empty(t, f.checks)
}

func TestMagicalProductionSchedulesPricyCard(t *testing.T) {
	f := newFixture(t)
	production := f.play(0, catalog.CardMagicalProduction, 1)

	assert.True(t, f.d.Execute(production))
	require.Len(t, f.arena.Player(0).Statuses, 1)
	st := f.arena.Player(0).Statuses[0]
	assert.Equal(t, catalog.StatusExecuteEffect, st.PresetID)
	assert.GreaterOrEqual(t, catalog.Default().MustCard(st.IntParam).Cost, 2.0)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, 1, st.Snapshot.Target)
}

func TestDivinerCardsAttachPassives(t *testing.T) {
	f := newFixture(t)
	ra := f.play(0, catalog.CardRa, state.NoPlayer)

	assert.True(t, f.d.Execute(ra))
	p := f.arena.Player(0)
	assert.NotNil(t, p.FindStatus(catalog.StatusRa, -1, -1))
	assert.NotNil(t, p.FindStatus(catalog.StatusSolarCharge, -1, -1))
	assert.Equal(t, 1.0, p.ManaGainedOffset)
}

func TestInvokeDoesNotPublishCardPlayed(t *testing.T) {
	f := newFixture(t)
	played := 0
	f.bus.SubscribeTyped(rules.EventCardPlayed, func(rules.Event) { played++ })

	mana := f.play(0, catalog.CardMana, state.NoPlayer)
	assert.True(t, f.d.Invoke(mana))
	assert.Equal(t, 3.0, f.arena.Player(0).Mana)
	assert.Zero(t, played)
}

func TestDepthGuard(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < rules.DefaultMaxDepth; i++ {
		require.NoError(t, f.d.resolving.BeginResolution(fmt.Sprintf("outer/%d", i)))
	}

	slash := f.play(0, catalog.CardSlash, 1)
	assert.False(t, f.d.Execute(slash))
	assert.Equal(t, 3.0, f.health(1))
	assert.Equal(t, rules.DefaultMaxDepth, f.d.resolving.GetDepth())

	f.d.SetStrict(true)
	assert.Panics(t, func() { f.d.Execute(slash) })
}

func TestUnknownCardIsAViolation(t *testing.T) {
	f := newFixture(t)
	bogus := &state.PlayedCard{Card: catalog.Card{ID: 999, Name: "Bogus"}, Owner: 0, Target: state.NoPlayer}

	assert.False(t, f.d.Execute(bogus))

	f.d.SetStrict(true)
	assert.Panics(t, func() { f.d.Execute(bogus) })
}
