package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alper6161/idle-chaos/internal/model"
)

var testBase = model.BaseStats{
	Attack: 5, Defense: 3, MinDamage: 1, MaxDamage: 3,
	AttackSpeed: 1, CritChance: 5, CritDamage: 150, Health: 100,
}

type fixedMastery model.StatBlock

func (m fixedMastery) Bonuses(map[string]int, model.AttackType) model.StatBlock {
	return model.StatBlock(m)
}

func TestCompute_BaseWithLevelOneSkills(t *testing.T) {
	c := Compute(Input{Name: "Hero", Base: testBase, AttackType: model.AttackStab})

	assert.Equal(t, "Hero", c.Name)
	assert.InDelta(t, 6.0, c.Attack, 1e-9)      // 5 + stab 1.0
	assert.InDelta(t, 4.8, c.Defense, 1e-9)     // 3 + block 0.5 + dodge 0.3 + armor 1
	assert.InDelta(t, 105.0, c.MaxHealth, 1e-9) // 100 + hp 5
	assert.InDelta(t, 1.005, c.AttackSpeed, 1e-9)
	assert.InDelta(t, 5.2, c.CritChance, 1e-9)
	assert.InDelta(t, 151.0, c.CritDamage, 1e-9)
	assert.Equal(t, 1.0, c.MinDamage)
	assert.Equal(t, 3.0, c.MaxDamage)
	assert.Equal(t, c.MaxHealth, c.CurrentHealth)
}

func TestCompute_OnlySelectedAttackTypeCounts(t *testing.T) {
	in := Input{
		Base:   testBase,
		Skills: map[string]int{model.SkillStab: 20, model.SkillFire: 20, model.SkillArmor: 10},
		Equipment: model.Equipment{
			model.SlotWeapon: {Name: "Staff", Stats: model.StatBlock{
				model.StatAttack: 4, model.StatDefense: 2, "FIRE_MAX_DAMAGE": 5,
			}},
		},
		Pets: model.StatBlock{model.StatAttack: 1, model.StatHealth: 10},
	}

	in.AttackType = model.AttackStab
	stab := Compute(in)
	in.AttackType = model.AttackFire
	fire := Compute(in)

	assert.InDelta(t, 30.0, stab.Attack, 1e-9) // 5 + 4 + 1 + 20×1.0
	assert.InDelta(t, 20.0, fire.Attack, 1e-9) // 5 + 4 + 1 + 20×0.5
	assert.Equal(t, stab.Defense, fire.Defense, "defensive skills apply to every attack type")
	assert.InDelta(t, 3+2+0.5+0.3+10.0, fire.Defense, 1e-9)
	assert.InDelta(t, 115.0, fire.MaxHealth, 1e-9)

	// fire: min 1 + 20×0.4 = 9, max 3 + 20×0.8 + 5 = 24
	assert.Equal(t, 9.0, fire.MinDamage)
	assert.Equal(t, 24.0, fire.MaxDamage)
	// stab: min 1 + 20×0.3 = 7, max 3 + 20×0.5 = 13; FIRE_MAX_DAMAGE ignored
	assert.Equal(t, 7.0, stab.MinDamage)
	assert.Equal(t, 13.0, stab.MaxDamage)
}

func TestCompute_Mastery(t *testing.T) {
	in := Input{Base: testBase, AttackType: model.AttackCrush,
		Mastery: fixedMastery{model.StatAttack: 3, model.StatMinDamage: 2, model.StatMaxDamage: 2}}

	c := Compute(in)
	assert.InDelta(t, 5+3+0.6, c.Attack, 1e-9)
	assert.Equal(t, 3.0, c.MinDamage) // floor(1 + 0.5 + 2)
	assert.Equal(t, 5.0, c.MaxDamage) // floor(3 + 0.9 + 2)

	without := Compute(Input{Base: testBase, AttackType: model.AttackCrush, Mastery: NoMastery{}})
	assert.InDelta(t, 5.6, without.Attack, 1e-9)
}

func TestCompute_Floors(t *testing.T) {
	c := Compute(Input{
		AttackType: model.AttackNone,
		Equipment: model.Equipment{model.SlotChest: {Name: "Cursed Plate", Stats: model.StatBlock{
			model.StatAttack: -100, model.StatDefense: -100, model.StatHealth: -1000,
			model.StatAttackSpeed: -5, model.StatCritChance: -50, model.StatCritDamage: -500,
			model.StatMinDamage: -10, model.StatMaxDamage: -10,
		}}},
	})

	assert.Equal(t, model.MinAttack, c.Attack)
	assert.Equal(t, model.MinDefense, c.Defense)
	assert.Equal(t, model.MinHealth, c.MaxHealth)
	assert.Equal(t, model.MinAttackSpeed, c.AttackSpeed)
	assert.Equal(t, 0.0, c.CritChance)
	assert.Equal(t, model.MinCritDamage, c.CritDamage)
	assert.Equal(t, 1.0, c.MinDamage)
	assert.Equal(t, 1.0, c.MaxDamage)

	lucky := Compute(Input{Base: testBase, Pets: model.StatBlock{model.StatCritChance: 500}})
	assert.Equal(t, model.MaxCritChance, lucky.CritChance)
}

func TestEnemy(t *testing.T) {
	goblin := Enemy(model.Enemy{ID: "goblin", Name: "Goblin", MaxHP: 50, ATK: 8, DEF: 5})
	assert.Equal(t, "Goblin", goblin.Name)
	assert.Equal(t, 4.0, goblin.MinDamage)
	assert.Equal(t, 8.0, goblin.MaxDamage)
	assert.Equal(t, 1.0, goblin.AttackSpeed)
	assert.Equal(t, 5.0, goblin.CritChance)
	assert.Equal(t, 150.0, goblin.CritDamage)
	assert.Equal(t, 50.0, goblin.CurrentHealth)

	boss := Enemy(model.Enemy{Name: "Lich", MaxHP: 1200, ATK: 40, DEF: 20,
		AttackSpeed: 1.4, MinDamage: 12, MaxDamage: 10, CritChance: 15, CritDamage: 200})
	assert.Equal(t, 12.0, boss.MinDamage)
	assert.Equal(t, 12.0, boss.MaxDamage, "max never below min")
	assert.Equal(t, 1.4, boss.AttackSpeed)
	assert.Equal(t, 200.0, boss.CritDamage)

	dummy := Enemy(model.Enemy{Name: "Dummy", MaxHP: 1})
	assert.Equal(t, model.MinHealth, dummy.MaxHealth, "templates share the health floor")
	assert.Equal(t, model.MinHealth, dummy.CurrentHealth)
}
