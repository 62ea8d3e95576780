package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// PotionRepository управляет запасом зелий и настройкой авто-зелья.
type PotionRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewPotionRepository создаёт новый PotionRepository.
func NewPotionRepository(pool *pgxpool.Pool, ch changes) *PotionRepository {
	return &PotionRepository{pool: pool, changes: ch}
}

// GetPotions implements store.PotionRepository.
func (r *PotionRepository) GetPotions(ctx context.Context, slotID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT potion_id, quantity FROM slot_potions WHERE slot_id = $1 AND quantity > 0`, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying potions of slot %s: %w", slotID, err)
	}
	defer rows.Close()

	stock := make(map[string]int, 4)
	for rows.Next() {
		var (
			id  string
			qty int
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scanning potion row: %w", err)
		}
		stock[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating potion rows: %w", err)
	}
	return stock, nil
}

// AddPotion implements store.PotionRepository.
func (r *PotionRepository) AddPotion(ctx context.Context, slotID, potionID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("adding %d potions: quantity must be positive", qty)
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO slot_potions (slot_id, potion_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (slot_id, potion_id) DO UPDATE SET quantity = slot_potions.quantity + $3`,
		slotID, potionID, qty,
	)
	if err != nil {
		return fmt.Errorf("adding potion %s to slot %s: %w", potionID, slotID, err)
	}
	r.changes.publish(ctx, store.TopicPotions, slotID)
	return nil
}

// UsePotion implements store.PotionRepository.
func (r *PotionRepository) UsePotion(ctx context.Context, slotID, potionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE slot_potions SET quantity = quantity - 1
		 WHERE slot_id = $1 AND potion_id = $2 AND quantity > 0`,
		slotID, potionID,
	)
	if err != nil {
		return false, fmt.Errorf("using potion %s of slot %s: %w", potionID, slotID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	r.changes.publish(ctx, store.TopicPotions, slotID)
	return true, nil
}

// GetAutoPotion implements store.PotionRepository. A slot that never saved the
// setting gets model.DefaultAutoPotion.
func (r *PotionRepository) GetAutoPotion(ctx context.Context, slotID string) (model.AutoPotion, error) {
	var cfg *model.AutoPotion
	err := r.pool.QueryRow(ctx, `SELECT auto_potion FROM save_slots WHERE id = $1`, slotID).Scan(&cfg)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && cfg == nil) {
		return model.DefaultAutoPotion(), nil
	}
	if err != nil {
		return model.AutoPotion{}, fmt.Errorf("querying auto potion of slot %s: %w", slotID, err)
	}
	return *cfg, nil
}

// SetAutoPotion implements store.PotionRepository.
func (r *PotionRepository) SetAutoPotion(ctx context.Context, slotID string, cfg model.AutoPotion) error {
	tag, err := r.pool.Exec(ctx, `UPDATE save_slots SET auto_potion = $2 WHERE id = $1`, slotID, cfg)
	if err != nil {
		return fmt.Errorf("saving auto potion of slot %s: %w", slotID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving auto potion: %w", store.ErrSlotNotFound)
	}
	r.changes.publish(ctx, store.TopicPotions, slotID)
	return nil
}
