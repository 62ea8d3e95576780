package model

import "strings"

// Stat names a combat stat carried by items, skills, pets and buffs.
type Stat string

const (
	StatAttack      Stat = "ATK"
	StatDefense     Stat = "DEF"
	StatHealth      Stat = "HEALTH"
	StatMinDamage   Stat = "MIN_DAMAGE"
	StatMaxDamage   Stat = "MAX_DAMAGE"
	StatAttackSpeed Stat = "ATTACK_SPEED"
	StatCritChance  Stat = "CRIT_CHANCE"
	StatCritDamage  Stat = "CRIT_DAMAGE"
)

// AttackTypeMinDamage returns the attack-type specific min damage stat, e.g. STAB_MIN_DAMAGE.
func AttackTypeMinDamage(at AttackType) Stat {
	return Stat(strings.ToUpper(at.String()) + "_MIN_DAMAGE")
}

// AttackTypeMaxDamage returns the attack-type specific max damage stat, e.g. FIRE_MAX_DAMAGE.
func AttackTypeMaxDamage(at AttackType) Stat {
	return Stat(strings.ToUpper(at.String()) + "_MAX_DAMAGE")
}

// StatBlock is a sparse stat → value mapping. A nil StatBlock reads as all zeros.
type StatBlock map[Stat]float64

// Get returns the value of stat, or 0 when absent.
func (b StatBlock) Get(stat Stat) float64 {
	if b == nil {
		return 0
	}
	return b[stat]
}

// Add accumulates every stat from other into b. b must be non-nil.
func (b StatBlock) Add(other StatBlock) {
	for k, v := range other {
		b[k] += v
	}
}

// Clone returns an independent copy.
func (b StatBlock) Clone() StatBlock {
	out := make(StatBlock, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
