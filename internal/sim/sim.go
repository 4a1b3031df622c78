// Package sim plays matches between random bots.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
)

// ErrStalled is returned when no bot can move.
var ErrStalled = errors.New("simulation stalled")

// Config describes a simulation run.
type Config struct {
	Players  []string
	Settings settings.Settings
	Seed     uint64
	Games    int
	// MaxTurns ends a game without a result when it runs this long.
	MaxTurns int
	// ReplayDir saves a replay per game when set.
	ReplayDir string
	Logger    *zap.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	Results []game.Result
	// Unfinished counts games cut off by MaxTurns.
	Unfinished int
	Records    map[string]game.Record
}

// Run plays cfg.Games games of one match. Bot choices derive from the seed,
// so equal configs give equal summaries.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 200
	}

	opts := game.Options{
		Settings: cfg.Settings,
		Seed:     cfg.Seed,
		Logger:   cfg.Logger,
	}
	if cfg.ReplayDir != "" {
		opts.Recorder = game.NewReplayRecorder(cfg.Logger, cfg.ReplayDir)
	}

	m, err := game.NewMatch(fmt.Sprintf("sim-%d", cfg.Seed), cfg.Players, opts)
	if err != nil {
		return Summary{}, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	sum := Summary{Records: make(map[string]game.Record, len(cfg.Players))}

	for g := 0; g < cfg.Games; g++ {
		if g == 0 {
			err = m.Start()
		} else {
			err = m.Rematch()
		}
		if err != nil {
			return sum, err
		}

		finished, err := playGame(ctx, m, rng, len(cfg.Players), cfg.MaxTurns)
		if err != nil {
			return sum, err
		}
		if !finished {
			sum.Unfinished++
			cfg.Logger.Warn("game cut off", zap.Int("game", g+1), zap.Int("turns", m.Turn()))
			break
		}

		result, _ := m.LastResult()
		sum.Results = append(sum.Results, result)
		cfg.Logger.Info("game finished",
			zap.Int("game", result.Game),
			zap.String("winner", result.WinnerName),
			zap.Int("turns", result.Turns),
			zap.String("checksum", result.Checksum),
		)
	}

	for seat, name := range cfg.Players {
		sum.Records[name] = m.Record(seat)
	}
	return sum, nil
}

// playGame drives one game to its end. It reports false when MaxTurns is
// reached first.
func playGame(ctx context.Context, m *game.Match, rng *rand.Rand, seats, maxTurns int) (bool, error) {
	for m.Phase() != rules.PhaseGameOver {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if m.Turn() > maxTurns {
			return false, nil
		}

		moved := false
		for seat := 0; seat < seats && m.Phase() == rules.PhaseAwaitingCards; seat++ {
			ok, err := move(m, rng, seat)
			if err != nil {
				return false, err
			}
			moved = moved || ok
		}
		if !moved && m.Phase() == rules.PhaseAwaitingCards {
			return false, fmt.Errorf("%w on turn %d", ErrStalled, m.Turn())
		}
	}
	return true, nil
}

// move lets one bot act if it still owes a card. It picks a random playable
// card and a random legal target.
func move(m *game.Match, rng *rand.Rand, seat int) (bool, error) {
	v := m.View(seat)
	me := v.Players[seat]
	if me.Left || me.Status != state.NotPlayed.String() {
		return false, nil
	}

	if v.Pending == nil {
		var playable []int
		for _, c := range v.Hand {
			if c.Playable {
				playable = append(playable, c.ID)
			}
		}
		if len(playable) == 0 {
			return false, nil
		}
		if err := m.PlayCard(seat, playable[rng.IntN(len(playable))]); err != nil {
			return false, fmt.Errorf("seat %d play: %w", seat, err)
		}
		v = m.View(seat)
		if v.Pending == nil {
			return true, nil
		}
	}

	targets := v.Targets
	if err := m.ChooseTarget(seat, targets[rng.IntN(len(targets))]); err != nil {
		return false, fmt.Errorf("seat %d target: %w", seat, err)
	}
	return true, nil
}
