package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tom-jt/Diviners-Gambit/internal/config"
	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// openTestStore connects to GAMBIT_TEST_DATABASE_URL or skips the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("GAMBIT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GAMBIT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, config.DatabaseConfig{URL: url, MaxConns: 4}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(ctx))
	_, err = store.pool.Exec(ctx, `TRUNCATE game_results, game_result_players, player_records, cards`)
	require.NoError(t, err)
	return store
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{URL: "postgres://localhost:badport/gambit"}, nil)
	assert.Error(t, err)
}

func TestSaveResultUpdatesRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := game.Result{
		MatchID: "match-1", Game: 1, Winner: 0, WinnerName: "alice",
		Turns: 4, Mode: "Remastered", Seed: 42, Checksum: "abc",
		EndedAt: time.Now().UTC().Truncate(time.Microsecond),
		Players: []game.ResultPlayer{
			{ID: 0, Name: "alice", Health: 2, DivinerID: -1},
			{ID: 1, Name: "bob", Health: 0, DivinerID: 64, Left: true},
		},
	}
	require.NoError(t, store.SaveResult(ctx, result))
	require.NoError(t, store.SaveResult(ctx, result), "duplicates are ignored")

	tie := result
	tie.Game, tie.Winner, tie.WinnerName = 2, -1, ""
	require.NoError(t, store.SaveResult(ctx, tie))

	alice, err := store.PlayerRecord(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, PlayerRecord{Name: "alice", Wins: 1, Ties: 1}, alice)

	bob, err := store.PlayerRecord(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, PlayerRecord{Name: "bob", Losses: 1, Ties: 1}, bob)

	_, err = store.PlayerRecord(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)

	top, err := store.TopPlayers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Name)

	recent, err := store.RecentResults(ctx, "match-1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].Game)
	assert.Equal(t, -1, recent[0].Winner)
	assert.Equal(t, 0, recent[1].Winner)
	assert.Equal(t, result.Players, recent[1].Players)
	assert.Equal(t, uint64(42), recent[1].Seed)
}

func TestSeedCatalog(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cat := catalog.Default()

	n, err := store.SeedCatalog(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, int64(cat.CardCount()), n)

	// Seeding again replaces rather than duplicates.
	_, err = store.SeedCatalog(ctx, cat)
	require.NoError(t, err)
	count, err := store.CardCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(cat.CardCount()), count)
}
