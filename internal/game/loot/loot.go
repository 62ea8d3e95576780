// Package loot rolls enemy drops, dungeon chests and generated equipment.
package loot

import (
	"math"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// Drops is the result of rolling one drop table.
type Drops struct {
	Items     []string               `json:"items"` // equipment drop names
	GoldItems []model.DropTableEntry `json:"goldItems"`
	TotalGold int64                  `json:"totalGold"`
}

// Empty reports whether nothing dropped.
func (d Drops) Empty() bool {
	return len(d.Items) == 0 && len(d.GoldItems) == 0
}

// Roller evaluates drop tables.
type Roller struct {
	rng rng.Source
}

// NewRoller creates a Roller. A nil source uses rng.Default.
func NewRoller(src rng.Source) *Roller {
	if src == nil {
		src = rng.Default()
	}
	return &Roller{rng: src}
}

// RollDrops evaluates every entry independently: an entry drops when rand < chance.
// Gold values are multiplied by goldMultiplier (<= 0 means ×1) and floored.
func (r *Roller) RollDrops(table []model.DropTableEntry, goldMultiplier float64) Drops {
	if goldMultiplier <= 0 {
		goldMultiplier = 1
	}

	var d Drops
	for _, e := range table {
		if !rng.Chance(r.rng, e.Chance) {
			continue
		}
		switch e.Type {
		case model.DropGold:
			d.GoldItems = append(d.GoldItems, e)
			d.TotalGold += int64(math.Floor(float64(e.Value) * goldMultiplier))
		default:
			d.Items = append(d.Items, e.Name)
		}
	}
	return d
}

// PickWeighted selects one entry proportionally to its weight. When weights do not
// sum to a positive total the first entry is returned. ok is false for an empty list.
func (r *Roller) PickWeighted(entries []model.WeightedEntry) (model.WeightedEntry, bool) {
	if len(entries) == 0 {
		return model.WeightedEntry{}, false
	}

	var total float64
	for _, e := range entries {
		if e.Chance > 0 {
			total += e.Chance
		}
	}
	if total <= 0 {
		return entries[0], true
	}

	roll := r.rng.Float64() * total
	for _, e := range entries {
		if e.Chance <= 0 {
			continue
		}
		if roll < e.Chance {
			return e, true
		}
		roll -= e.Chance
	}
	return entries[0], true
}

// RollPet rolls the pets an enemy carries and returns the first unowned pet that drops.
func (r *Roller) RollPet(enemy model.Enemy, owned []string) (string, bool) {
	have := make(map[string]bool, len(owned))
	for _, id := range owned {
		have[id] = true
	}
	for _, id := range enemy.Pets {
		if have[id] {
			continue
		}
		pet := data.GetPet(id)
		if pet == nil {
			continue
		}
		if rng.Chance(r.rng, pet.DropRate) {
			return id, true
		}
	}
	return "", false
}
