package testutil

import (
	"context"
	"testing"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// MemoryStore создаёт in-memory store с общей шиной уведомлений
// и заранее созданными слотами slotIDs (имя слота = его ID).
func MemoryStore(t testing.TB, slotIDs ...string) (*store.Memory, *store.Bus) {
	t.Helper()

	bus := store.NewBus()
	mem := store.NewMemory(bus)
	for _, id := range slotIDs {
		if err := mem.CreateSlot(context.Background(), store.Slot{ID: id, Name: id}); err != nil {
			t.Fatalf("creating slot %s: %v", id, err)
		}
	}
	return mem, bus
}

// Weapon возвращает оружие с заданной атакой.
func Weapon(id string, atk float64) model.Item {
	return model.Item{
		ID:     id,
		Name:   "Test Sword",
		Type:   model.SlotWeapon,
		Rarity: model.RarityCommon,
		Level:  1,
		Stats:  model.StatBlock{model.StatAttack: atk},
	}
}

// Armor возвращает броню для slot с заданной защитой.
func Armor(id string, slot model.Slot, def float64) model.Item {
	return model.Item{
		ID:     id,
		Name:   "Test " + string(slot),
		Type:   slot,
		Rarity: model.RarityCommon,
		Level:  1,
		Stats:  model.StatBlock{model.StatDefense: def},
	}
}
