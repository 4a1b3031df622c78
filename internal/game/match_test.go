package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/mana"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
)

const (
	cardSoulSteal       = 15
	cardSoulRip         = 16
	cardMagicShield     = 27
	cardBlessingOfLove  = 61
	cardWrathOfTheSun   = 70
	cardSteelArmour     = 8
	cardSuffocatingPot  = 66
	cardHouseChickenFee = 68
)

var gen0Hand = []int{
	catalog.CardMana, catalog.CardSlash, catalog.CardDeflect, catalog.CardGun,
	catalog.CardBulletRepel, catalog.CardFireball, catalog.CardSweep, cardMagicShield,
}

func classic() settings.Settings {
	return settings.Settings{Mode: settings.ModeClassic, Pool: settings.DefaultPool}
}

func withDiviners() settings.Settings {
	s := settings.Default()
	s.Diviners = true
	return s
}

func TestNewMatchPlayerCount(t *testing.T) {
	_, err := NewMatch("m", []string{"solo"}, Options{})
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	_, err = NewMatch("m", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, Options{})
	assert.ErrorIs(t, err, ErrTooManyPlayers)

	m, err := NewMatch("m", []string{"a", "b", "c", "d", "e", "f", "g", "h"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "m", m.ID())
}

func TestStartDealsPool(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")

	for _, p := range h.match.arena.Players() {
		assert.Equal(t, 3.0, p.Health)
		assert.Equal(t, 2.0, p.Mana)
		assert.Equal(t, state.NotPlayed, p.Status)
		assert.Equal(t, gen0Hand, handIDs(p))
	}

	slot, ok := h.Player(0).HandSlotOf(catalog.CardFireball)
	require.True(t, ok)
	assert.Equal(t, 4.0, slot.Cost)
	assert.False(t, slot.Playable)

	slot, ok = h.Player(0).HandSlotOf(catalog.CardGun)
	require.True(t, ok)
	assert.True(t, slot.Playable)

	assert.Equal(t, 1, h.match.Turn())
	assert.Equal(t, rules.PhaseAwaitingCards, h.match.Phase())
	assert.Equal(t, []string{"Turn 1"}, h.Texts())
	assert.ErrorIs(t, h.match.Start(), ErrMatchRunning)
}

func TestSlashAgainstDeflect(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")

	h.PlayAt(0, catalog.CardSlash, 1)
	assert.Equal(t, rules.PhaseAwaitingCards, h.match.Phase())
	h.Play(1, catalog.CardDeflect)

	assert.Equal(t, 1.0, h.Player(0).Mana)
	assert.Equal(t, 3.0, h.Player(0).Health)
	assert.Equal(t, 2.0, h.Player(1).Mana)
	assert.Equal(t, 3.0, h.Player(1).Health)

	checks := h.EventsOf(rules.EventDefenseChecked)
	require.Len(t, checks, 1)
	assert.Equal(t, 1, checks[0].PlayerID)
	assert.Equal(t, 0, checks[0].SourceID)
	assert.False(t, checks[0].Flag)

	assert.Len(t, h.sink.OfType(NotifyCardRevealed), 2)
	arrows := h.sink.OfType(NotifyArrow)
	require.Len(t, arrows, 1)
	assert.Equal(t, 0, arrows[0].Data["owner"])
	assert.Equal(t, 1, arrows[0].Data["target"])

	// Played cards go back to their owners after the reveal.
	assert.ElementsMatch(t, gen0Hand, handIDs(h.Player(0)))
	assert.ElementsMatch(t, gen0Hand, handIDs(h.Player(1)))

	for _, p := range h.match.arena.Players() {
		assert.Nil(t, p.Played)
		assert.Equal(t, state.NotPlayed, p.Status)
	}
	assert.Equal(t, 2, h.match.Turn())
	assert.Equal(t, []string{"Turn 1", "Turn 2"}, h.Texts())
}

func TestOneHealthDeath(t *testing.T) {
	h := NewMatchHarness(t, classic(), "alice", "bob")

	h.PlayAt(0, catalog.CardSlash, 1)
	h.Play(1, catalog.CardMana)

	bob := h.Player(1)
	assert.Equal(t, 0.0, bob.Health)
	assert.Equal(t, state.Dead, bob.Status)
	assert.False(t, bob.Targetable)
	assert.Len(t, h.EventsOf(rules.EventPlayerDied), 1)

	assert.Equal(t, rules.PhaseGameOver, h.match.Phase())
	result, ok := h.match.LastResult()
	require.True(t, ok)
	assert.Equal(t, 0, result.Winner)
	assert.Equal(t, "alice", result.WinnerName)
	assert.Equal(t, 1, result.Turns)
	assert.NotEmpty(t, result.Checksum)

	assert.Equal(t, Record{Wins: 1}, h.match.Record(0))
	assert.Equal(t, Record{Losses: 1}, h.match.Record(1))

	ended := h.sink.OfType(NotifyGameEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, 0, ended[0].Data["winner"])
	texts := h.Texts()
	assert.Equal(t, "alice Wins!", texts[len(texts)-1])

	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardMana), ErrMatchOver)
}

func TestWitheringKillsEveryoneForATie(t *testing.T) {
	h := NewMatchHarness(t, classic(), "alice", "bob")
	h.Spawn(0, catalog.StatusWithering, 2, false, status.Float(1))
	h.Spawn(1, catalog.StatusWithering, 2, false, status.Float(1))

	h.Play(0, catalog.CardDeflect)
	h.Play(1, catalog.CardDeflect)

	assert.Equal(t, rules.PhaseGameOver, h.match.Phase())
	result, ok := h.match.LastResult()
	require.True(t, ok)
	assert.Equal(t, state.NoPlayer, result.Winner)
	assert.Empty(t, result.WinnerName)
	assert.Equal(t, Record{Ties: 1}, h.match.Record(0))
	assert.Equal(t, Record{Ties: 1}, h.match.Record(1))

	texts := h.Texts()
	assert.Equal(t, "Tied!", texts[len(texts)-1])
}

func TestCommitErrors(t *testing.T) {
	h := newUnstartedHarness(t, settings.Default(), Options{}, "alice", "bob")
	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardMana), ErrNotAwaitingCards)
	h.start()

	assert.ErrorIs(t, h.match.PlayCard(5, catalog.CardMana), state.ErrUnknownPlayer)
	assert.ErrorIs(t, h.match.PlayCard(0, cardSteelArmour), ErrCardNotInHand)
	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardFireball), ErrCardUnplayable)
	assert.ErrorIs(t, h.match.ChooseTarget(0, 1), ErrNoPendingCard)

	require.NoError(t, h.match.PlayCard(0, catalog.CardSlash))
	assert.False(t, h.Player(0).HasInHand(catalog.CardSlash))
	assert.Equal(t, state.NotPlayed, h.Player(0).Status)
	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardMana), ErrTargetPending)
	assert.ErrorIs(t, h.match.ChooseTarget(0, 7), ErrInvalidTarget)

	targets, err := h.match.Targets(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, targets)

	require.NoError(t, h.match.ChooseTarget(0, 1))
	assert.Equal(t, state.HasPlayed, h.Player(0).Status)
	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardMana), ErrNotYourTurn)
	assert.Equal(t, rules.PhaseAwaitingCards, h.match.Phase())
}

func TestTargetingWithNobodyTargetable(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob", "carol")
	for _, p := range h.match.arena.Players() {
		p.Targetable = false
	}

	h.Play(0, catalog.CardSlash)

	alice := h.Player(0)
	assert.Nil(t, alice.Pending)
	require.NotNil(t, alice.Played)
	assert.Equal(t, 0, alice.Played.Target)

	targets, err := h.match.Targets(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, targets)
}

func TestResolutionWaitsForEveryone(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob", "carol")

	h.Play(0, catalog.CardDeflect)
	h.Play(1, catalog.CardDeflect)
	assert.Equal(t, 1, h.match.Turn())
	assert.Empty(t, h.sink.OfType(NotifyCardRevealed))

	h.Play(2, catalog.CardDeflect)
	assert.Equal(t, 2, h.match.Turn())
	assert.Len(t, h.sink.OfType(NotifyCardRevealed), 3)
}

func TestLeaveForfeits(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob", "carol")

	h.Play(0, catalog.CardDeflect)
	h.Play(1, catalog.CardDeflect)
	require.NoError(t, h.match.Leave(2))

	carol := h.Player(2)
	assert.True(t, carol.Left)
	assert.Equal(t, state.Dead, carol.Status)
	assert.Equal(t, 2, h.match.Turn(), "the round resolves once the leaver stops holding it up")

	require.NoError(t, h.match.Leave(1))
	assert.Equal(t, rules.PhaseGameOver, h.match.Phase())
	result, ok := h.match.LastResult()
	require.True(t, ok)
	assert.Equal(t, 0, result.Winner)

	assert.ErrorIs(t, h.match.Rematch(), ErrTooFewPlayers)
}

func TestCrippledSkipsFirstTurnEnd(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")
	h.Spawn(1, catalog.StatusCrippled, 2, true, status.Float(1))

	round := func() {
		h.Play(0, catalog.CardDeflect)
		h.Play(1, catalog.CardDeflect)
	}

	round()
	assert.Equal(t, 2.0, h.Player(1).Mana)
	require.Len(t, h.Player(1).Statuses, 1)
	assert.False(t, h.Player(1).Statuses[0].SkipFirst)

	round()
	assert.Equal(t, 1.0, h.Player(1).Mana)
	require.Len(t, h.Player(1).Statuses, 1)
	assert.Equal(t, 1, h.Player(1).Statuses[0].Countdown)

	round()
	assert.Equal(t, 0.0, h.Player(1).Mana)
	assert.Empty(t, h.Player(1).Statuses)

	round()
	assert.Equal(t, 0.0, h.Player(1).Mana)
	assert.Equal(t, 2.0, h.Player(0).Mana)
	h.Verify()
}

func TestUnplayableOverride(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")
	alice := h.Player(0)

	revert := mana.SetTypeOverride(alice, catalog.TypeAttack, 0)
	h.match.refreshHand(0)

	slot, ok := alice.HandSlotOf(catalog.CardSlash)
	require.True(t, ok)
	assert.Equal(t, mana.Unplayable, slot.Cost)
	assert.False(t, slot.Playable)
	assert.ErrorIs(t, h.match.PlayCard(0, catalog.CardSlash), ErrCardUnplayable)

	revert()
	h.match.refreshHand(0)
	slot, _ = alice.HandSlotOf(catalog.CardSlash)
	assert.True(t, slot.Playable)
	require.NoError(t, h.match.PlayCard(0, catalog.CardSlash))
}

func TestUniqueTierKeepsHigherCost(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")
	h.GiveCard(0, cardSoulSteal)
	h.GiveCard(1, cardSoulRip)
	h.SetMana(0, 3)
	h.SetMana(1, 6)

	h.PlayAt(0, cardSoulSteal, 1)
	h.PlayAt(1, cardSoulRip, 0)

	// The steal is outbid, so it is never paid for; the rip takes all 3.
	assert.Equal(t, 0.0, h.Player(0).Mana)
	assert.Equal(t, 4.0, h.Player(1).Mana)
	assert.True(t, h.Player(0).HasInHand(cardSoulSteal))
}

func TestDivinerPick(t *testing.T) {
	h := NewMatchHarness(t, withDiviners(), "alice", "bob")

	assert.Equal(t, 0, h.match.Turn())
	assert.Equal(t, []string{"Picking Diviners"}, h.Texts())
	diviners := []int{
		catalog.CardAphrodite, catalog.CardLoki, catalog.CardBabaYaga,
		catalog.CardRa, catalog.CardSunWukong, catalog.CardBellona,
	}
	assert.Equal(t, diviners, handIDs(h.Player(0)))

	h.Play(0, catalog.CardBabaYaga)
	h.Play(1, catalog.CardRa)

	alice, bob := h.Player(0), h.Player(1)
	assert.Equal(t, catalog.CardBabaYaga, alice.DivinerID)
	assert.Equal(t, catalog.CardRa, bob.DivinerID)

	assert.Equal(t, append([]int{65, cardSuffocatingPot, 67, cardHouseChickenFee}, gen0Hand...), handIDs(alice))
	assert.Equal(t, append([]int{cardWrathOfTheSun}, gen0Hand...), handIDs(bob))

	assert.NotNil(t, alice.FindStatus(catalog.StatusBabaYaga, -1, -1))
	assert.NotNil(t, bob.FindStatus(catalog.StatusRa, -1, -1))
	assert.NotNil(t, bob.FindStatus(catalog.StatusSolarCharge, -1, -1))

	assert.Equal(t, 1, h.match.Turn())
	assert.Equal(t, []string{"Picking Diviners", "Turn 1"}, h.Texts())
	h.Verify()
}

func TestRematchKeepsPassives(t *testing.T) {
	h := NewMatchHarness(t, withDiviners(), "alice", "bob")

	h.Play(0, catalog.CardAphrodite)
	h.Play(1, catalog.CardBabaYaga)
	assert.Equal(t, 4.0, h.Player(0).Health)

	assert.ErrorIs(t, h.match.Rematch(), ErrMatchRunning)

	h.SetHealth(1, 1)
	h.PlayAt(0, catalog.CardSlash, 1)
	h.Play(1, catalog.CardMana)
	require.Equal(t, rules.PhaseGameOver, h.match.Phase())

	require.NoError(t, h.match.Rematch())
	h.record()

	alice, bob := h.Player(0), h.Player(1)
	assert.Equal(t, 1, h.match.Turn())
	assert.Equal(t, rules.PhaseAwaitingCards, h.match.Phase())
	assert.Equal(t, 4.0, alice.Health, "Aphrodite's bonus survives the resource reset")
	assert.Equal(t, 3.0, bob.Health)
	assert.Equal(t, state.NotPlayed, bob.Status)
	assert.True(t, bob.Targetable)

	assert.NotNil(t, alice.FindStatus(catalog.StatusAphrodite, -1, -1))
	assert.NotNil(t, bob.FindStatus(catalog.StatusBabaYaga, -1, -1))
	assert.Equal(t, cardBlessingOfLove, handIDs(alice)[0])
	assert.Equal(t, Record{Wins: 1}, h.match.Record(0))
	h.Verify()

	// The new game plays normally.
	h.Play(0, catalog.CardMana)
	h.Play(1, catalog.CardDeflect)
	assert.Equal(t, 2, h.match.Turn())
	assert.Equal(t, 3.0, alice.Mana)
}

func TestAutoRematch(t *testing.T) {
	h := newUnstartedHarness(t, classic(), Options{AutoRematch: true}, "alice", "bob")
	h.start()

	h.PlayAt(0, catalog.CardSlash, 1)
	h.Play(1, catalog.CardMana)

	assert.Equal(t, rules.PhaseAwaitingCards, h.match.Phase())
	assert.Equal(t, 1, h.match.Turn())
	assert.Equal(t, 1.0, h.Player(1).Health)
	assert.True(t, h.Player(1).Alive())

	result, ok := h.match.LastResult()
	require.True(t, ok)
	assert.Equal(t, 1, result.Game)
	assert.Equal(t, 2, h.match.View(state.NoPlayer).Game)
}

func TestReplayRecordedPerGame(t *testing.T) {
	dir := t.TempDir()
	recorder := NewReplayRecorder(zaptest.NewLogger(t), dir)
	h := newUnstartedHarness(t, classic(), Options{Recorder: recorder}, "alice", "bob")
	h.start()
	_, live := recorder.Replay("match-test-1")
	assert.True(t, live)

	h.PlayAt(0, catalog.CardSlash, 1)
	h.Play(1, catalog.CardMana)

	_, inMemory := recorder.Replay("match-test-1")
	assert.False(t, inMemory, "finished replays are written out")

	replay, err := LoadReplayFromFile(dir, "match-test-1")
	require.NoError(t, err)
	require.Equal(t, 2, replay.Size())
	assert.Equal(t, uint64(42), replay.Seed)

	last := replay.Last()
	assert.Equal(t, state.Dead.String(), last.Players[1].Status)

	result, _ := h.match.LastResult()
	sum, err := last.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, result.Checksum, sum.Hash)
}

func TestSameSeedSameChecksum(t *testing.T) {
	play := func() string {
		h := NewMatchHarness(t, classic(), "alice", "bob")
		h.PlayAt(0, catalog.CardSlash, 1)
		h.Play(1, catalog.CardMana)
		result, ok := h.match.LastResult()
		require.True(t, ok)
		return result.Checksum
	}
	assert.Equal(t, play(), play())
}

func TestViewHidesOtherHands(t *testing.T) {
	h := NewMatchHarness(t, settings.Default(), "alice", "bob")
	require.NoError(t, h.match.PlayCard(0, catalog.CardSlash))

	v := h.match.View(0)
	require.NotNil(t, v.Pending)
	assert.Equal(t, catalog.CardSlash, v.Pending.ID)
	assert.Equal(t, []int{0, 1}, v.Targets)
	assert.Len(t, v.Hand, len(gen0Hand)-1)

	require.NoError(t, h.match.ChooseTarget(0, 1))

	v = h.match.View(1)
	assert.True(t, v.Players[0].Committed)
	assert.False(t, v.Players[1].Committed)
	assert.Nil(t, v.Pending)
	require.Len(t, v.Hand, len(gen0Hand))
	for i := 1; i < len(v.Hand); i++ {
		assert.LessOrEqual(t, v.Hand[i-1].Cost, v.Hand[i].Cost)
	}

	spectator := h.match.View(state.NoPlayer)
	assert.Nil(t, spectator.Hand)
	assert.Equal(t, "Remastered", spectator.Mode)
}
