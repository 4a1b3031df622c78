package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
)

// SeedCatalog replaces the cards table with the given catalog and returns
// the number of rows written.
func (s *Store) SeedCatalog(ctx context.Context, cat *catalog.Catalog) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE cards`); err != nil {
		return 0, fmt.Errorf("failed to clear cards: %w", err)
	}

	cards := cat.Cards()
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"cards"},
		[]string{"id", "name", "description", "generation", "priority", "card_type", "cost", "targets", "damage"},
		pgx.CopyFromSlice(len(cards), func(i int) ([]any, error) {
			c := cards[i]
			return []any{
				c.ID, c.Name, c.Description, c.Generation,
				c.Priority.String(), c.Type.String(), c.Cost, c.Targets, c.Damage.String(),
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy cards: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit cards: %w", err)
	}
	return n, nil
}

// CardCount returns the number of stored cards.
func (s *Store) CardCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}
