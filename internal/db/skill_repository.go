package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// SkillRepository управляет навыками слота в БД.
type SkillRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewSkillRepository создаёт новый SkillRepository.
func NewSkillRepository(pool *pgxpool.Pool, ch changes) *SkillRepository {
	return &SkillRepository{pool: pool, changes: ch}
}

// GetSkills загружает навыки слота. Отсутствующие навыки имеют уровень 1.
func (r *SkillRepository) GetSkills(ctx context.Context, slotID string) (model.SkillSet, error) {
	rows, err := r.pool.Query(ctx, `SELECT skill, level, xp FROM slot_skills WHERE slot_id = $1`, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying skills of slot %s: %w", slotID, err)
	}
	defer rows.Close()

	set := model.NewSkillSet()
	for rows.Next() {
		var (
			key string
			sk  model.Skill
		)
		if err := rows.Scan(&key, &sk.Level, &sk.XP); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		set.Set(key, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill rows: %w", err)
	}
	return set.Normalize(), nil
}

// SaveSkills сохраняет все навыки слота (UPSERT) в одной транзакции.
func (r *SkillRepository) SaveSkills(ctx context.Context, slotID string, skills model.SkillSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(ctx, tx, slotID)

	for category, set := range skills {
		for key, sk := range set {
			if _, err := tx.Exec(ctx,
				`INSERT INTO slot_skills (slot_id, category, skill, level, xp) VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (slot_id, skill) DO UPDATE SET category = $2, level = $4, xp = $5`,
				slotID, category, key, sk.Level, sk.XP,
			); err != nil {
				return fmt.Errorf("upserting skill %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing skills save: %w", err)
	}
	r.changes.publish(ctx, store.TopicSkills, slotID)
	return nil
}
