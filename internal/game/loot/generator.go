package loot

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// ErrUnknownTemplate is returned when a drop names no equipment template.
var ErrUnknownTemplate = errors.New("unknown equipment template")

// Power tiers: enemy power below the bound selects the tier.
var tierBounds = [...]float64{50, 150, 400, 1000}

type levelRange struct{ lo, hi int }

var tierLevels = [...]levelRange{
	{1, 5},
	{5, 15},
	{15, 30},
	{30, 50},
	{50, 80},
}

// Base rarity weights, common → legendary.
var baseRarityWeights = [...]float64{60, 25, 10, 4, 1}

// Per-tier multipliers applied to baseRarityWeights.
var tierRarityMultipliers = [...][5]float64{
	{1.0, 0.8, 0.5, 0.2, 0.1},
	{1.0, 1.0, 0.8, 0.5, 0.3},
	{1.0, 1.2, 1.0, 0.8, 0.5},
	{0.8, 1.3, 1.3, 1.2, 1.0},
	{0.6, 1.3, 1.5, 1.8, 2.0},
}

var rarityStatMultipliers = [...]float64{1.0, 1.2, 1.5, 2.0, 3.0}

type band struct{ lo, hi float64 }

var rarityVariance = [...]band{
	{0.90, 1.10},
	{0.95, 1.15},
	{1.00, 1.20},
	{1.05, 1.25},
	{1.10, 1.30},
}

var rarityBonusCount = [...]int{0, 1, 1, 2, 3}

type bonusStat struct {
	stat   model.Stat
	weight float64
	base   float64
}

var bonusPool = []bonusStat{
	{model.StatAttack, 25, 2},
	{model.StatDefense, 25, 2},
	{model.StatHealth, 20, 10},
	{model.StatCritChance, 10, 1},
	{model.StatCritDamage, 10, 5},
	{model.StatAttackSpeed, 5, 0.05},
	{model.StatMinDamage, 2.5, 1},
	{model.StatMaxDamage, 2.5, 2},
}

// Generator turns equipment drop names into item instances.
type Generator struct {
	rng   rng.Source
	newID func() string
}

// NewGenerator creates a Generator. A nil source uses rng.Default.
func NewGenerator(src rng.Source) *Generator {
	if src == nil {
		src = rng.Default()
	}
	return &Generator{rng: src, newID: uuid.NewString}
}

// Tier returns the power tier (0..4) of an enemy.
func Tier(power float64) int {
	for i, bound := range tierBounds {
		if power < bound {
			return i
		}
	}
	return len(tierBounds)
}

// Generate creates an item from the template named dropName, scaled by the power of enemy.
func (g *Generator) Generate(dropName string, enemy model.Enemy) (model.Item, error) {
	tmpl := data.GetEquipmentTemplate(dropName)
	if tmpl == nil {
		return model.Item{}, fmt.Errorf("generating %q: %w", dropName, ErrUnknownTemplate)
	}

	tier := Tier(enemy.Power())
	lr := tierLevels[tier]
	level := max(1, rng.Between(g.rng, lr.lo, lr.hi))
	rarity := g.rollRarity(tier)

	levelMult := 1 + float64(level-1)*0.05
	mult := rarityStatMultipliers[rarity] * levelMult

	stats := make(model.StatBlock, len(tmpl.Stats)+rarityBonusCount[rarity])
	for st, v := range tmpl.Stats {
		stats[st] = round2(v * mult * g.variance(rarity))
	}
	for _, b := range g.rollBonuses(rarityBonusCount[rarity]) {
		stats[b.stat] = round2(stats[b.stat] + b.base*mult)
	}

	return model.Item{
		ID:         g.newID(),
		Name:       tmpl.Name,
		Type:       tmpl.Type,
		Rarity:     rarity,
		Level:      level,
		Stats:      stats,
		WeaponType: tmpl.WeaponType,
	}, nil
}

// RarityWeights returns the effective rarity weights of a tier.
func RarityWeights(tier int) [5]float64 {
	tier = min(max(tier, 0), len(tierRarityMultipliers)-1)
	var w [5]float64
	for i := range w {
		w[i] = baseRarityWeights[i] * tierRarityMultipliers[tier][i]
	}
	return w
}

func (g *Generator) rollRarity(tier int) model.Rarity {
	w := RarityWeights(tier)
	var total float64
	for _, v := range w {
		total += v
	}
	roll := g.rng.Float64() * total
	for i, v := range w {
		if roll < v {
			return model.Rarity(i)
		}
		roll -= v
	}
	return model.RarityCommon
}

func (g *Generator) variance(r model.Rarity) float64 {
	b := rarityVariance[r]
	return b.lo + g.rng.Float64()*(b.hi-b.lo)
}

// rollBonuses draws n distinct stats from the weighted pool.
func (g *Generator) rollBonuses(n int) []bonusStat {
	if n <= 0 {
		return nil
	}
	pool := append([]bonusStat(nil), bonusPool...)
	out := make([]bonusStat, 0, n)
	for len(out) < n && len(pool) > 0 {
		var total float64
		for _, b := range pool {
			total += b.weight
		}
		roll := g.rng.Float64() * total
		idx := len(pool) - 1
		for i, b := range pool {
			if roll < b.weight {
				idx = i
				break
			}
			roll -= b.weight
		}
		out = append(out, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
