package combat

import (
	"math"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// DamageInput carries everything the three-layer damage range depends on.
type DamageInput struct {
	BaseMin     float64
	BaseMax     float64
	DefenderDEF float64 // not applied by the three-layer range
	AttackType  model.AttackType
	SkillLevels map[string]int
	Pets        model.StatBlock
	Mastery     model.StatBlock
	Equipment   model.Equipment
}

// DamageRange computes the [min, max] damage of an attack from three additive layers:
//  1. skill level × per-level min/max bonus of the attack type's skill
//  2. flat pet + mastery min/max bonuses
//  3. equipment MIN_DAMAGE/MAX_DAMAGE plus {TYPE}_MIN_DAMAGE/{TYPE}_MAX_DAMAGE
//
// Both bounds are floored at 1 and max is never below min.
func DamageRange(in DamageInput) model.DamageRange {
	minDmg, maxDmg := in.BaseMin, in.BaseMax

	if skill := in.AttackType.Skill(); skill != "" {
		level := float64(max(in.SkillLevels[skill], 1))
		per := in.AttackType.PerLevelBonus()
		minDmg += level * per.Get(model.StatMinDamage)
		maxDmg += level * per.Get(model.StatMaxDamage)
	}

	minDmg += in.Pets.Get(model.StatMinDamage) + in.Mastery.Get(model.StatMinDamage)
	maxDmg += in.Pets.Get(model.StatMaxDamage) + in.Mastery.Get(model.StatMaxDamage)

	eq := in.Equipment.TotalStats()
	minDmg += eq.Get(model.StatMinDamage)
	maxDmg += eq.Get(model.StatMaxDamage)
	if in.AttackType != model.AttackNone {
		minDmg += eq.Get(model.AttackTypeMinDamage(in.AttackType))
		maxDmg += eq.Get(model.AttackTypeMaxDamage(in.AttackType))
	}

	r := model.DamageRange{
		Min: max(1, int(math.Floor(minDmg))),
		Max: max(1, int(math.Floor(maxDmg))),
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

// SampleDamage draws a uniform integer in [r.Min, r.Max], floored at 1.
func SampleDamage(src rng.Source, r model.DamageRange) int {
	lo, hi := r.Min, max(r.Max, r.Min)
	dmg := int(math.Floor(float64(lo) + src.Float64()*float64(hi-lo+1)))
	if dmg > hi {
		dmg = hi
	}
	return max(1, dmg)
}

// RollCrit reports a critical hit: rand×100 <= critChance.
func RollCrit(src rng.Source, critChance float64) bool {
	if critChance <= 0 {
		return false
	}
	return src.Float64()*100 <= critChance
}

// ApplyCrit multiplies damage by critDamage percent and floors the result.
func ApplyCrit(damage int, critDamage float64) int {
	critDamage = max(critDamage, model.MinCritDamage)
	return max(1, int(math.Floor(float64(damage)*critDamage/100)))
}

// Legacy damage variance: ±15%.
const legacyVariance = 0.15

// LegacyDamage is the attack-type agnostic model: (ATK − DEF×0.5) with ±15%
// variance, floored at 1.
func LegacyDamage(src rng.Source, atk, def float64) int {
	base := atk - def*0.5
	variance := 1 - legacyVariance + src.Float64()*2*legacyVariance
	return max(1, int(math.Floor(base*variance)))
}
