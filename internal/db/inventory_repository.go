package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// InventoryRepository хранит сумку с добычей. Порядок предметов сохраняется.
type InventoryRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewInventoryRepository создаёт новый InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool, ch changes) *InventoryRepository {
	return &InventoryRepository{pool: pool, changes: ch}
}

// GetLoot implements store.InventoryRepository.
func (r *InventoryRepository) GetLoot(ctx context.Context, slotID string) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT item FROM slot_loot WHERE slot_id = $1 ORDER BY position`, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying loot of slot %s: %w", slotID, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowTo[model.Item])
	if err != nil {
		return nil, fmt.Errorf("scanning loot of slot %s: %w", slotID, err)
	}
	return items, nil
}

// SaveLoot перезаписывает сумку целиком через COPY.
func (r *InventoryRepository) SaveLoot(ctx context.Context, slotID string, items []model.Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(ctx, tx, slotID)

	if _, err := tx.Exec(ctx, `DELETE FROM slot_loot WHERE slot_id = $1`, slotID); err != nil {
		return fmt.Errorf("deleting loot: %w", err)
	}

	if len(items) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"slot_loot"},
			[]string{"slot_id", "position", "item"},
			pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
				return []any{slotID, i, items[i]}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copying loot of slot %s: %w", slotID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing loot save: %w", err)
	}
	r.changes.publish(ctx, store.TopicLoot, slotID)
	return nil
}
