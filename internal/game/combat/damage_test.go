package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

func TestDamageRange_ThreeLayers(t *testing.T) {
	in := DamageInput{
		BaseMin:     1,
		BaseMax:     3,
		AttackType:  model.AttackStab, // +0.3 min, +0.5 max per level
		SkillLevels: map[string]int{model.SkillStab: 10},
		Pets:        model.StatBlock{model.StatMinDamage: 1, model.StatMaxDamage: 2},
		Mastery:     model.StatBlock{},
		Equipment: model.Equipment{
			model.SlotWeapon: {Name: "Dagger", Stats: model.StatBlock{
				model.StatMinDamage: 2, model.StatMaxDamage: 4,
				"STAB_MIN_DAMAGE": 1, "STAB_MAX_DAMAGE": 1,
				"FIRE_MAX_DAMAGE": 50, // other attack type: ignored
			}},
			model.SlotHelmet: nil,
		},
	}

	r := DamageRange(in)
	// min: 1 + 3 + 1 + 2 + 1 = 8; max: 3 + 5 + 2 + 4 + 1 = 15
	assert.Equal(t, model.DamageRange{Min: 8, Max: 15}, r)
}

func TestDamageRange_NoOffensiveSkillBonusWithoutAttackType(t *testing.T) {
	r := DamageRange(DamageInput{BaseMin: 2, BaseMax: 4, AttackType: model.AttackNone,
		SkillLevels: map[string]int{model.SkillStab: 99}})
	assert.Equal(t, model.DamageRange{Min: 2, Max: 4}, r)
}

func TestDamageRange_Floors(t *testing.T) {
	tests := []struct {
		name string
		in   DamageInput
		want model.DamageRange
	}{
		{"negative base", DamageInput{BaseMin: -10, BaseMax: -5}, model.DamageRange{Min: 1, Max: 1}},
		{"inverted bounds", DamageInput{BaseMin: 9, BaseMax: 3}, model.DamageRange{Min: 9, Max: 9}},
		{"zero", DamageInput{}, model.DamageRange{Min: 1, Max: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DamageRange(tt.in)
			assert.Equal(t, tt.want, r)
			assert.LessOrEqual(t, r.Min, r.Max)
		})
	}
}

func TestSampleDamage_InclusiveRange(t *testing.T) {
	r := model.DamageRange{Min: 3, Max: 7}

	assert.Equal(t, 3, SampleDamage(rng.NewSequence(0), r))
	assert.Equal(t, 7, SampleDamage(rng.NewSequence(0.9999), r))
	assert.Equal(t, 5, SampleDamage(rng.NewSequence(0.5), r)) // floor(3 + 0.5*5)

	src := rng.NewSeeded(42)
	for range 1000 {
		d := SampleDamage(src, r)
		require.GreaterOrEqual(t, d, 3)
		require.LessOrEqual(t, d, 7)
	}
}

func TestSampleDamage_NeverBelowOne(t *testing.T) {
	src := rng.NewSeeded(7)
	for _, r := range []model.DamageRange{{Min: 0, Max: 0}, {Min: -5, Max: -1}, {Min: 1, Max: 1}} {
		for range 100 {
			assert.GreaterOrEqual(t, SampleDamage(src, r), 1)
		}
	}
}

func TestRollCrit_Boundaries(t *testing.T) {
	src := rng.NewSeeded(1)
	for range 200 {
		assert.False(t, RollCrit(src, 0), "no crit at 0%%")
		assert.True(t, RollCrit(src, 100), "always crit at 100%%")
	}
	assert.True(t, RollCrit(rng.NewSequence(0.04), 5))
	assert.False(t, RollCrit(rng.NewSequence(0.06), 5))
}

func TestApplyCrit(t *testing.T) {
	assert.Equal(t, 15, ApplyCrit(10, 150))
	assert.Equal(t, 17, ApplyCrit(7, 250))   // floor(17.5)
	assert.Equal(t, 10, ApplyCrit(10, 50))   // critDamage floored at 100%
	assert.Equal(t, 1, ApplyCrit(0, 200))
}

func TestLegacyDamage(t *testing.T) {
	// base = 20 - 10*0.5 = 15
	assert.Equal(t, 12, LegacyDamage(rng.NewSequence(0), 20, 10))   // ×0.85 = 12.75
	assert.Equal(t, 15, LegacyDamage(rng.NewSequence(0.6), 20, 10)) // ×1.03
	assert.Equal(t, 1, LegacyDamage(rng.NewSequence(0.5), 1, 100))
}
