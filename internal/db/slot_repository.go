package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/store"
)

const pgUniqueViolation = "23505"

// SlotRepository управляет слотами сохранений.
type SlotRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewSlotRepository создаёт новый SlotRepository.
func NewSlotRepository(pool *pgxpool.Pool, ch changes) *SlotRepository {
	return &SlotRepository{pool: pool, changes: ch}
}

// CreateSlot implements store.SlotRepository.
func (r *SlotRepository) CreateSlot(ctx context.Context, slot store.Slot) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO save_slots (id, name) VALUES ($1, $2)`, slot.ID, slot.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("creating slot %s: %w", slot.ID, store.ErrSlotExists)
		}
		return fmt.Errorf("creating slot %s: %w", slot.ID, err)
	}
	r.changes.publish(ctx, store.TopicSlots, slot.ID)
	return nil
}

// GetSlot implements store.SlotRepository.
func (r *SlotRepository) GetSlot(ctx context.Context, slotID string) (store.Slot, error) {
	var s store.Slot
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM save_slots WHERE id = $1`, slotID).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Slot{}, fmt.Errorf("slot %s: %w", slotID, store.ErrSlotNotFound)
	}
	if err != nil {
		return store.Slot{}, fmt.Errorf("querying slot %s: %w", slotID, err)
	}
	return s, nil
}

// ListSlots implements store.SlotRepository.
func (r *SlotRepository) ListSlots(ctx context.Context) ([]store.Slot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM save_slots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	slots, err := pgx.CollectRows(rows, pgx.RowToStructByPos[store.Slot])
	if err != nil {
		return nil, fmt.Errorf("scanning slots: %w", err)
	}
	return slots, nil
}

// CurrencyRepository хранит золото слота в save_slots.gold.
type CurrencyRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewCurrencyRepository создаёт новый CurrencyRepository.
func NewCurrencyRepository(pool *pgxpool.Pool, ch changes) *CurrencyRepository {
	return &CurrencyRepository{pool: pool, changes: ch}
}

// GetGold implements store.CurrencyRepository. Unknown slots have no gold.
func (r *CurrencyRepository) GetGold(ctx context.Context, slotID string) (int64, error) {
	var gold int64
	err := r.pool.QueryRow(ctx, `SELECT gold FROM save_slots WHERE id = $1`, slotID).Scan(&gold)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying gold of slot %s: %w", slotID, err)
	}
	return gold, nil
}

// AddGold implements store.CurrencyRepository.
func (r *CurrencyRepository) AddGold(ctx context.Context, slotID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("adding negative gold %d", amount)
	}
	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE save_slots SET gold = gold + $2 WHERE id = $1 RETURNING gold`,
		slotID, amount,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adding gold to slot %s: %w", slotID, store.ErrSlotNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("adding gold to slot %s: %w", slotID, err)
	}
	r.changes.publish(ctx, store.TopicGold, slotID)
	return balance, nil
}

// SubtractGold implements store.CurrencyRepository. The balance never goes
// below zero: the update only matches when enough gold is available.
func (r *CurrencyRepository) SubtractGold(ctx context.Context, slotID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("subtracting negative gold %d", amount)
	}
	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE save_slots SET gold = gold - $2 WHERE id = $1 AND gold >= $2 RETURNING gold`,
		slotID, amount,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		current, gerr := r.GetGold(ctx, slotID)
		if gerr != nil {
			return 0, gerr
		}
		return current, store.ErrInsufficientGold
	}
	if err != nil {
		return 0, fmt.Errorf("subtracting gold from slot %s: %w", slotID, err)
	}
	r.changes.publish(ctx, store.TopicGold, slotID)
	return balance, nil
}
