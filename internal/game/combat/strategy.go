package combat

import (
	"fmt"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// Strategy names accepted by StrategyByName.
const (
	StrategyExponential = "exponential"
	StrategyRatio       = "ratio"
)

// Strategy is a hit/damage model. Two coexist: the attack-type aware exponential
// model used by live battles and the older ratio model.
type Strategy interface {
	Name() string
	// HitChance returns the attacker's hit chance in percent.
	HitChance(attacker, defender model.Combatant, at model.AttackType) int
	// RollDamage returns the non-crit damage of a landed hit.
	RollDamage(src rng.Source, attacker, defender model.Combatant) int
}

// ExponentialStrategy uses Accuracy and the attacker's precomputed three-layer range.
type ExponentialStrategy struct{}

// Name implements Strategy.
func (ExponentialStrategy) Name() string { return StrategyExponential }

// HitChance implements Strategy.
func (ExponentialStrategy) HitChance(attacker, defender model.Combatant, at model.AttackType) int {
	return Accuracy(attacker.Attack, defender.Defense, at)
}

// RollDamage implements Strategy.
func (ExponentialStrategy) RollDamage(src rng.Source, attacker, _ model.Combatant) int {
	return SampleDamage(src, RangeOf(attacker))
}

// RatioStrategy uses RatioHitChance and LegacyDamage. Attack types are ignored.
type RatioStrategy struct{}

// Name implements Strategy.
func (RatioStrategy) Name() string { return StrategyRatio }

// HitChance implements Strategy.
func (RatioStrategy) HitChance(attacker, defender model.Combatant, _ model.AttackType) int {
	return RatioHitChance(attacker.Attack, defender.Defense)
}

// RollDamage implements Strategy.
func (RatioStrategy) RollDamage(src rng.Source, attacker, defender model.Combatant) int {
	return LegacyDamage(src, attacker.Attack, defender.Defense)
}

// StrategyByName resolves a configured strategy name. Empty selects exponential.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategyExponential:
		return ExponentialStrategy{}, nil
	case StrategyRatio:
		return RatioStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown combat strategy %q", name)
	}
}

// RangeOf returns the integer damage range of an aggregated combatant.
func RangeOf(c model.Combatant) model.DamageRange {
	r := model.DamageRange{Min: max(1, int(c.MinDamage)), Max: max(1, int(c.MaxDamage))}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}
