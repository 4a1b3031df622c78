package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PlayerRecord is a player's lifetime tally, keyed by name.
type PlayerRecord struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

// SaveResult stores a finished game and updates the records of everyone who
// played it. Saving the same game twice is a no-op.
func (s *Store) SaveResult(ctx context.Context, result game.Result) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var winner *string
	if result.WinnerName != "" {
		winner = &result.WinnerName
	}

	var resultID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO game_results (match_id, game, mode, seed, turns, winner_name, checksum, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id, game) DO NOTHING
		RETURNING id
	`,
		result.MatchID,
		result.Game,
		result.Mode,
		int64(result.Seed),
		result.Turns,
		winner,
		result.Checksum,
		result.EndedAt,
	).Scan(&resultID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug("game result already stored",
			zap.String("match_id", result.MatchID),
			zap.Int("game", result.Game),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert game result: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range result.Players {
		batch.Queue(`
			INSERT INTO game_result_players (result_id, seat, name, health, diviner_id, left_game)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, resultID, p.ID, p.Name, p.Health, p.DivinerID, p.Left)

		wins, losses, ties := outcome(result, p.ID)
		batch.Queue(`
			INSERT INTO player_records (name, wins, losses, ties)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET
				wins = player_records.wins + EXCLUDED.wins,
				losses = player_records.losses + EXCLUDED.losses,
				ties = player_records.ties + EXCLUDED.ties,
				updated_at = now()
		`, p.Name, wins, losses, ties)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store players: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit game result: %w", err)
	}

	s.logger.Info("game result stored",
		zap.String("match_id", result.MatchID),
		zap.Int("game", result.Game),
		zap.Int64("result_id", resultID),
	)
	return nil
}

// outcome maps a seat to one win, loss or tie.
func outcome(result game.Result, seat int) (wins, losses, ties int) {
	switch {
	case result.Winner < 0:
		return 0, 0, 1
	case result.Winner == seat:
		return 1, 0, 0
	default:
		return 0, 1, 0
	}
}

// PlayerRecord returns the tally of one player.
func (s *Store) PlayerRecord(ctx context.Context, name string) (PlayerRecord, error) {
	rec := PlayerRecord{Name: name}
	err := s.pool.QueryRow(ctx,
		`SELECT wins, losses, ties FROM player_records WHERE name = $1`, name,
	).Scan(&rec.Wins, &rec.Losses, &rec.Ties)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, fmt.Errorf("%w: player %q", ErrNotFound, name)
	}
	if err != nil {
		return rec, fmt.Errorf("failed to query player record: %w", err)
	}
	return rec, nil
}

// TopPlayers returns up to limit records ordered by wins.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]PlayerRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, wins, losses, ties FROM player_records
		ORDER BY wins DESC, losses ASC, name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query player records: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[PlayerRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to read player records: %w", err)
	}
	return records, nil
}

// RecentResults returns the last limit games of a match, newest first.
func (s *Store) RecentResults(ctx context.Context, matchID string, limit int) ([]game.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, game, mode, seed, turns, COALESCE(winner_name, ''), checksum, ended_at
		FROM game_results WHERE match_id = $1
		ORDER BY game DESC
		LIMIT $2
	`, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var (
		results []game.Result
		ids     []int64
	)
	for rows.Next() {
		var (
			id   int64
			seed int64
			r    = game.Result{MatchID: matchID, Winner: -1}
		)
		if err := rows.Scan(&id, &r.Game, &r.Mode, &seed, &r.Turns, &r.WinnerName, &r.Checksum, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		r.Seed = uint64(seed)
		results = append(results, r)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game results: %w", err)
	}

	for i, id := range ids {
		players, err := s.resultPlayers(ctx, id)
		if err != nil {
			return nil, err
		}
		results[i].Players = players
		for _, p := range players {
			if p.Name == results[i].WinnerName && results[i].WinnerName != "" {
				results[i].Winner = p.ID
			}
		}
	}
	return results, nil
}

func (s *Store) resultPlayers(ctx context.Context, resultID int64) ([]game.ResultPlayer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT seat, name, health, diviner_id, left_game
		FROM game_result_players WHERE result_id = $1
		ORDER BY seat
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to query result players: %w", err)
	}
	players, err := pgx.CollectRows(rows, pgx.RowToStructByPos[game.ResultPlayer])
	if err != nil {
		return nil, fmt.Errorf("failed to read result players: %w", err)
	}
	return players, nil
}
