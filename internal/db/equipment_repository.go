package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// EquipmentRepository управляет экипировкой слота. Предмет хранится в JSONB.
type EquipmentRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewEquipmentRepository создаёт новый EquipmentRepository.
func NewEquipmentRepository(pool *pgxpool.Pool, ch changes) *EquipmentRepository {
	return &EquipmentRepository{pool: pool, changes: ch}
}

// GetEquipped implements store.EquipmentRepository.
func (r *EquipmentRepository) GetEquipped(ctx context.Context, slotID string) (model.Equipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT equip_slot, item FROM slot_equipment WHERE slot_id = $1`, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying equipment of slot %s: %w", slotID, err)
	}
	defer rows.Close()

	eq := make(model.Equipment, len(model.Slots()))
	for rows.Next() {
		var (
			slot model.Slot
			item model.Item
		)
		if err := rows.Scan(&slot, &item); err != nil {
			return nil, fmt.Errorf("scanning equipment row: %w", err)
		}
		eq[slot] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating equipment rows: %w", err)
	}
	return eq, nil
}

// SetEquipped перезаписывает экипировку слота целиком.
func (r *EquipmentRepository) SetEquipped(ctx context.Context, slotID string, eq model.Equipment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(ctx, tx, slotID)

	if _, err := tx.Exec(ctx, `DELETE FROM slot_equipment WHERE slot_id = $1`, slotID); err != nil {
		return fmt.Errorf("deleting equipment: %w", err)
	}

	batch := &pgx.Batch{}
	for slot, item := range eq {
		if item == nil {
			continue
		}
		batch.Queue(`INSERT INTO slot_equipment (slot_id, equip_slot, item) VALUES ($1, $2, $3)`, slotID, slot, item)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting equipment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing equipment save: %w", err)
	}
	r.changes.publish(ctx, store.TopicEquipment, slotID)
	return nil
}

// PetRepository управляет питомцами слота.
type PetRepository struct {
	pool    *pgxpool.Pool
	changes changes
}

// NewPetRepository создаёт новый PetRepository.
func NewPetRepository(pool *pgxpool.Pool, ch changes) *PetRepository {
	return &PetRepository{pool: pool, changes: ch}
}

func (r *PetRepository) petIDs(ctx context.Context, query, slotID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("querying pets of slot %s: %w", slotID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning pets of slot %s: %w", slotID, err)
	}
	return ids, nil
}

// GetEquippedPetIDs implements store.PetRepository.
func (r *PetRepository) GetEquippedPetIDs(ctx context.Context, slotID string) ([]string, error) {
	return r.petIDs(ctx, `SELECT pet_id FROM slot_pets WHERE slot_id = $1 AND equipped ORDER BY pet_id`, slotID)
}

// GetOwnedPetIDs implements store.PetRepository.
func (r *PetRepository) GetOwnedPetIDs(ctx context.Context, slotID string) ([]string, error) {
	return r.petIDs(ctx, `SELECT pet_id FROM slot_pets WHERE slot_id = $1 ORDER BY pet_id`, slotID)
}

// SetEquippedPetIDs экипирует ровно указанных питомцев. Неизвестные питомцы
// не добавляются: экипировать можно только полученных.
func (r *PetRepository) SetEquippedPetIDs(ctx context.Context, slotID string, ids []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE slot_pets SET equipped = (pet_id = ANY($2)) WHERE slot_id = $1`,
		slotID, ids,
	)
	if err != nil {
		return fmt.Errorf("equipping pets of slot %s: %w", slotID, err)
	}
	r.changes.publish(ctx, store.TopicPets, slotID)
	return nil
}

// AddOwnedPet implements store.PetRepository. Adding an owned pet again is a no-op.
func (r *PetRepository) AddOwnedPet(ctx context.Context, slotID, petID string) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO slot_pets (slot_id, pet_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		slotID, petID,
	)
	if err != nil {
		return fmt.Errorf("adding pet %s to slot %s: %w", petID, slotID, err)
	}
	if tag.RowsAffected() > 0 {
		r.changes.publish(ctx, store.TopicPets, slotID)
	}
	return nil
}
