// Package db implements the engine's store on PostgreSQL.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/store"
)

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// changes публикует уведомления об изменениях слота.
// Origin берётся из контекста записи.
type changes struct {
	notifier store.Notifier
}

func (c changes) publish(ctx context.Context, topic store.Topic, slotID string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Publish(store.Change{Topic: topic, SlotID: slotID, Origin: store.OriginFrom(ctx)})
}

// Store объединяет все репозитории в store.Store.
type Store struct {
	*SlotRepository
	*EquipmentRepository
	*SkillRepository
	*PetRepository
	*CurrencyRepository
	*PotionRepository
	*AchievementRepository
	*InventoryRepository
}

var _ store.Store = (*Store)(nil)

// NewStore создаёт Store поверх pool. notifier может быть nil.
func NewStore(pool *pgxpool.Pool, notifier store.Notifier) *Store {
	ch := changes{notifier: notifier}
	return &Store{
		SlotRepository:        NewSlotRepository(pool, ch),
		EquipmentRepository:   NewEquipmentRepository(pool, ch),
		SkillRepository:       NewSkillRepository(pool, ch),
		PetRepository:         NewPetRepository(pool, ch),
		CurrencyRepository:    NewCurrencyRepository(pool, ch),
		PotionRepository:      NewPotionRepository(pool, ch),
		AchievementRepository: NewAchievementRepository(pool, ch),
		InventoryRepository:   NewInventoryRepository(pool, ch),
	}
}

// rollback откатывает транзакцию; после Commit ошибка ожидаема.
func rollback(ctx context.Context, tx pgx.Tx, slotID string) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("rollback failed", "slot", slotID, "error", err)
	}
}
