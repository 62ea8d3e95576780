package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

func TestRollDrops_CertainAndImpossible(t *testing.T) {
	table := []model.DropTableEntry{
		{Name: "Rusty Dagger", Chance: 1, Type: model.DropEquipment},
		{Name: "Leather Cap", Chance: 1, Type: model.DropEquipment},
		{Name: "Crown", Chance: 0, Type: model.DropEquipment},
	}
	r := NewRoller(rng.NewSeeded(11))

	for range 1000 {
		d := r.RollDrops(table, 1)
		require.Equal(t, []string{"Rusty Dagger", "Leather Cap"}, d.Items)
	}
}

func TestRollDrops_EntriesAreIndependent(t *testing.T) {
	table := []model.DropTableEntry{
		{Name: "a", Chance: 0.5, Type: model.DropEquipment},
		{Name: "b", Chance: 0.5, Type: model.DropEquipment},
	}

	d := NewRoller(rng.NewSequence(0.4, 0.6)).RollDrops(table, 1)
	assert.Equal(t, []string{"a"}, d.Items)

	d = NewRoller(rng.NewSequence(0.1, 0.2)).RollDrops(table, 1)
	assert.Equal(t, []string{"a", "b"}, d.Items, "several entries may drop on one kill")

	d = NewRoller(rng.NewSequence(0.9)).RollDrops(table, 1)
	assert.True(t, d.Empty())
}

func TestRollDrops_GoldMultiplier(t *testing.T) {
	table := []model.DropTableEntry{{Name: "Gold", Chance: 1, Type: model.DropGold, Value: 100}}
	r := NewRoller(rng.NewSeeded(1))

	assert.Equal(t, int64(300), r.RollDrops(table, 3).TotalGold)
	assert.Equal(t, int64(100), r.RollDrops(table, 0).TotalGold)
	assert.Equal(t, int64(150), r.RollDrops(table, 1.5).TotalGold)

	d := r.RollDrops(table, 3)
	require.Len(t, d.GoldItems, 1)
	assert.Empty(t, d.Items)
}

func TestPickWeighted_Distribution(t *testing.T) {
	entries := []model.WeightedEntry{{Name: "Iron Sword", Chance: 30}, {Name: "Steel Shield", Chance: 70}}
	r := NewRoller(rng.NewSeeded(42))

	const trials = 10_000
	counts := map[string]int{}
	for range trials {
		e, ok := r.PickWeighted(entries)
		require.True(t, ok)
		counts[e.Name]++
	}

	assert.InDelta(t, 0.3, float64(counts["Iron Sword"])/trials, 0.02)
	assert.InDelta(t, 0.7, float64(counts["Steel Shield"])/trials, 0.02)
}

func TestPickWeighted_Fallbacks(t *testing.T) {
	r := NewRoller(rng.NewSequence(0.5))

	_, ok := r.PickWeighted(nil)
	assert.False(t, ok)

	e, ok := r.PickWeighted([]model.WeightedEntry{{Name: "first"}, {Name: "second"}})
	assert.True(t, ok)
	assert.Equal(t, "first", e.Name)
}

func TestBag_RejectsNewestWhenFull(t *testing.T) {
	bag := NewBag(2, nil)

	rejected := bag.Add(model.Item{ID: "1"}, model.Item{ID: "2"}, model.Item{ID: "3"})
	require.Len(t, rejected, 1)
	assert.Equal(t, "3", rejected[0].ID)
	assert.True(t, bag.Full())

	it, ok := bag.Take("1")
	require.True(t, ok)
	assert.Equal(t, "1", it.ID)
	assert.Empty(t, bag.Add(model.Item{ID: "4"}))

	ids := []string{}
	for _, it := range bag.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"2", "4"}, ids)

	_, ok = bag.Take("missing")
	assert.False(t, ok)
	assert.Equal(t, DefaultBagLimit, NewBag(0, nil).Limit())
}

func TestRollPet(t *testing.T) {
	data.SetTestPet(model.Pet{ID: "test_pup", Name: "Test Pup", DropRate: 1})
	enemy := model.Enemy{ID: "wolf", Pets: []string{"unknown_pet", "test_pup"}}
	r := NewRoller(rng.NewSeeded(3))

	id, ok := r.RollPet(enemy, nil)
	assert.True(t, ok)
	assert.Equal(t, "test_pup", id)

	_, ok = r.RollPet(enemy, []string{"test_pup"})
	assert.False(t, ok, "owned pets never drop again")
}
