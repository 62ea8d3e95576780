// Package combat resolves attacks: hit chance, damage ranges, crits and the
// tick-driven exchange between the player and an enemy.
package combat

import (
	"math"

	"github.com/alper6161/idle-chaos/internal/model"
)

// Accuracy bounds, percent.
const (
	AccuracyEqual = 25
	AccuracyMin   = 5
	AccuracyMax   = 100

	// accuracyScale controls how fast the curve saturates.
	accuracyScale = 40.0
	accuracySpan  = 75.0
)

// Accuracy returns the hit chance in percent [5, 100] of an attacker with effective
// attack atk against a defender with defense def.
//
// Magic attack types never miss. Stats that round to the same integer give exactly 25%.
// Otherwise the chance approaches 100% as the attacker's advantage grows and falls to
// the 5% floor when the defender is stronger.
func Accuracy(atk, def float64, at model.AttackType) int {
	if at.IsMagic() {
		return AccuracyMax
	}
	if math.Round(atk) == math.Round(def) {
		return AccuracyEqual
	}
	if atk > def {
		diff := atk - def
		acc := AccuracyEqual + int(math.Floor(accuracySpan*(1-math.Exp(-diff/accuracyScale))))
		return min(AccuracyMax, acc)
	}
	diff := def - atk
	acc := AccuracyEqual - int(math.Floor(accuracySpan*math.Exp(diff/accuracyScale)))
	return max(AccuracyMin, acc)
}

// Ratio model bounds, percent.
const (
	RatioBaseline = 60
	RatioMin      = 5
	RatioMax      = 95
)

var ratioSteps = []struct {
	atLeast float64
	delta   int
}{
	{2.0, 30},
	{1.5, 20},
	{1.2, 10},
	{1.0, 0},
	{0.8, -10},
	{0.5, -25},
}

// RatioHitChance is the ATK/DEF ratio model: baseline 60%, stepped by ratio
// buckets, clamped to [5, 95]. Used where no attack type is known.
func RatioHitChance(atk, def float64) int {
	if def <= 0 {
		return RatioMax
	}
	ratio := atk / def
	delta := -40
	for _, s := range ratioSteps {
		if ratio >= s.atLeast {
			delta = s.delta
			break
		}
	}
	return min(max(RatioBaseline+delta, RatioMin), RatioMax)
}

// HitChance is the generic hit chance for contexts without an attack type
// (previews, simulations). Battle exchanges go through a Strategy instead.
func HitChance(atk, def float64) int {
	return RatioHitChance(atk, def)
}
