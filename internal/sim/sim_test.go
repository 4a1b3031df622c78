package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
)

func classicConfig(t *testing.T, seed uint64) Config {
	return Config{
		Players:  []string{"alice", "bob"},
		Settings: settings.Settings{Mode: settings.ModeClassic, Pool: settings.DefaultPool},
		Seed:     seed,
		Games:    3,
		Logger:   zaptest.NewLogger(t),
	}
}

func TestRunPlaysGames(t *testing.T) {
	sum, err := Run(context.Background(), classicConfig(t, 11))
	require.NoError(t, err)
	require.NotEmpty(t, sum.Results)
	assert.LessOrEqual(t, len(sum.Results)+sum.Unfinished, 3)

	for i, result := range sum.Results {
		assert.Equal(t, i+1, result.Game)
		assert.NotEmpty(t, result.Checksum)
	}
	for name, rec := range sum.Records {
		assert.Equal(t, len(sum.Results), rec.Games(), name)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(context.Background(), classicConfig(t, 5))
	require.NoError(t, err)
	second, err := Run(context.Background(), classicConfig(t, 5))
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Checksum, second.Results[i].Checksum)
		assert.Equal(t, first.Results[i].Winner, second.Results[i].Winner)
	}
	assert.Equal(t, first.Records, second.Records)
}

func TestRunSavesReplays(t *testing.T) {
	cfg := classicConfig(t, 3)
	cfg.Games = 1
	cfg.ReplayDir = t.TempDir()

	sum, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, sum.Results, 1)

	result := sum.Results[0]
	replay, err := game.LoadReplayFromFile(cfg.ReplayDir, fmt.Sprintf("%s-%d", result.MatchID, result.Game))
	require.NoError(t, err)
	assert.Equal(t, result.Seed, replay.Seed)
	assert.Positive(t, replay.Size())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, classicConfig(t, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunNeedsPlayers(t *testing.T) {
	cfg := classicConfig(t, 1)
	cfg.Players = []string{"solo"}

	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)
}
