// Package store defines the persistence boundary of the engine and ships an
// in-memory implementation plus an in-process change notifier.
package store

import (
	"context"
	"errors"

	"github.com/alper6161/idle-chaos/internal/model"
)

var (
	// ErrInsufficientGold is returned by SubtractGold when the balance is too low.
	ErrInsufficientGold = errors.New("insufficient gold")
	// ErrSlotNotFound is returned for operations on unknown save slots.
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrSlotExists is returned when creating a slot that already exists.
	ErrSlotExists = errors.New("save slot already exists")
)

// Slot is a save slot.
type Slot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SlotRepository manages save slots.
type SlotRepository interface {
	CreateSlot(ctx context.Context, slot Slot) error
	GetSlot(ctx context.Context, slotID string) (Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
}

// EquipmentRepository persists equipped items.
type EquipmentRepository interface {
	GetEquipped(ctx context.Context, slotID string) (model.Equipment, error)
	SetEquipped(ctx context.Context, slotID string, eq model.Equipment) error
}

// SkillRepository persists skill progress.
type SkillRepository interface {
	GetSkills(ctx context.Context, slotID string) (model.SkillSet, error)
	SaveSkills(ctx context.Context, slotID string, skills model.SkillSet) error
}

// PetRepository persists owned and equipped pets.
type PetRepository interface {
	GetEquippedPetIDs(ctx context.Context, slotID string) ([]string, error)
	SetEquippedPetIDs(ctx context.Context, slotID string, ids []string) error
	GetOwnedPetIDs(ctx context.Context, slotID string) ([]string, error)
	AddOwnedPet(ctx context.Context, slotID, petID string) error
}

// CurrencyRepository persists gold. Add and Subtract return the new balance.
type CurrencyRepository interface {
	GetGold(ctx context.Context, slotID string) (int64, error)
	AddGold(ctx context.Context, slotID string, amount int64) (int64, error)
	SubtractGold(ctx context.Context, slotID string, amount int64) (int64, error)
}

// PotionRepository persists potion stock and the auto-potion setting.
type PotionRepository interface {
	GetPotions(ctx context.Context, slotID string) (map[string]int, error)
	AddPotion(ctx context.Context, slotID, potionID string, qty int) error
	// UsePotion consumes one potion; found is false when none is in stock.
	UsePotion(ctx context.Context, slotID, potionID string) (found bool, err error)
	GetAutoPotion(ctx context.Context, slotID string) (model.AutoPotion, error)
	SetAutoPotion(ctx context.Context, slotID string, cfg model.AutoPotion) error
}

// AchievementRepository persists kill counts and unlocks.
type AchievementRepository interface {
	GetAchievements(ctx context.Context, slotID string) (model.Achievements, error)
	SaveAchievements(ctx context.Context, slotID string, a model.Achievements) error
}

// InventoryRepository persists the loot bag.
type InventoryRepository interface {
	GetLoot(ctx context.Context, slotID string) ([]model.Item, error)
	SaveLoot(ctx context.Context, slotID string, items []model.Item) error
}

// Store is the full persistence surface used by sessions and the API.
type Store interface {
	SlotRepository
	EquipmentRepository
	SkillRepository
	PetRepository
	CurrencyRepository
	PotionRepository
	AchievementRepository
	InventoryRepository
}

type originKey struct{}

// WithOrigin tags writes made with ctx so the writer can ignore its own change
// notifications.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom returns the origin set by WithOrigin, or "".
func OriginFrom(ctx context.Context) string {
	s, _ := ctx.Value(originKey{}).(string)
	return s
}
