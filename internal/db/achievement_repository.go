package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// AchievementRepository хранит счётчики убийств и разблокировки слота.
type AchievementRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewAchievementRepository создаёт новый AchievementRepository.
func NewAchievementRepository(pool *pgxpool.Pool, ch changes) *AchievementRepository {
	return &AchievementRepository{pool: pool, changes: ch}
}

// GetAchievements implements store.AchievementRepository.
func (r *AchievementRepository) GetAchievements(ctx context.Context, slotID string) (model.Achievements, error) {
	a := model.NewAchievements()

	rows, err := r.pool.Query(ctx, `SELECT enemy_id, kills FROM slot_kills WHERE slot_id = $1`, slotID)
	if err != nil {
		return a, fmt.Errorf("querying kills of slot %s: %w", slotID, err)
	}
	for rows.Next() {
		var (
			enemyID string
			kills   int
		)
		if err := rows.Scan(&enemyID, &kills); err != nil {
			rows.Close()
			return a, fmt.Errorf("scanning kill row: %w", err)
		}
		a.Kills[enemyID] = kills
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return a, fmt.Errorf("iterating kill rows: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT unlock_key, enemy_id, kill_count, reward, description, unlocked_at
		 FROM slot_unlocks WHERE slot_id = $1`, slotID)
	if err != nil {
		return a, fmt.Errorf("querying unlocks of slot %s: %w", slotID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			u   model.Unlock
		)
		if err := rows.Scan(&key, &u.EnemyID, &u.KillCount, &u.Reward, &u.Description, &u.UnlockedAt); err != nil {
			return a, fmt.Errorf("scanning unlock row: %w", err)
		}
		a.Unlocked[key] = u
	}
	if err := rows.Err(); err != nil {
		return a, fmt.Errorf("iterating unlock rows: %w", err)
	}
	return a, nil
}

// SaveAchievements сохраняет счётчики и новые разблокировки в одной транзакции.
// Существующие разблокировки не перезаписываются.
func (r *AchievementRepository) SaveAchievements(ctx context.Context, slotID string, a model.Achievements) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(ctx, tx, slotID)

	batch := &pgx.Batch{}
	for enemyID, kills := range a.Kills {
		batch.Queue(
			`INSERT INTO slot_kills (slot_id, enemy_id, kills) VALUES ($1, $2, $3)
			 ON CONFLICT (slot_id, enemy_id) DO UPDATE SET kills = GREATEST(slot_kills.kills, $3)`,
			slotID, enemyID, kills,
		)
	}
	for key, u := range a.Unlocked {
		at := u.UnlockedAt
		if at.IsZero() {
			at = time.Now()
		}
		batch.Queue(
			`INSERT INTO slot_unlocks (slot_id, unlock_key, enemy_id, kill_count, reward, description, unlocked_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`,
			slotID, key, u.EnemyID, u.KillCount, u.Reward, u.Description, at,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving achievements of slot %s: %w", slotID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing achievements save: %w", err)
	}
	r.changes.publish(ctx, store.TopicAchievements, slotID)
	return nil
}
