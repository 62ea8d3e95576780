// Package stats aggregates the effective combat stats of players and enemies.
package stats

import (
	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/model"
)

// MasteryProvider returns flat bonuses unlocked by skill mastery.
type MasteryProvider interface {
	Bonuses(skills map[string]int, at model.AttackType) model.StatBlock
}

// NoMastery grants nothing.
type NoMastery struct{}

// Bonuses implements MasteryProvider.
func (NoMastery) Bonuses(map[string]int, model.AttackType) model.StatBlock { return model.StatBlock{} }

// Input is everything the player's effective stats depend on.
type Input struct {
	Name       string
	Base       model.BaseStats
	Equipment  model.Equipment
	Skills     map[string]int
	AttackType model.AttackType
	Pets       model.StatBlock
	Mastery    MasteryProvider
}

// alwaysOn are the skills whose bonuses apply regardless of the selected attack type.
var alwaysOn = []string{
	model.SkillBlock, model.SkillDodge, model.SkillArmor, model.SkillHP,
	model.SkillCritChance, model.SkillCritDamage,
}

// Compute returns the effective stats for in, with current health at maximum.
// Offensive skill bonuses only count for the selected attack type.
func Compute(in Input) model.Combatant {
	mastery := in.Mastery
	if mastery == nil {
		mastery = NoMastery{}
	}
	mb := mastery.Bonuses(in.Skills, in.AttackType)

	total := in.Equipment.TotalStats()
	total.Add(in.Pets)
	total.Add(mb)

	if skill := in.AttackType.Skill(); skill != "" {
		addSkill(total, skill, in.Skills[skill], model.StatAttack)
	}
	for _, skill := range alwaysOn {
		addSkill(total, skill, in.Skills[skill])
	}

	dr := combat.DamageRange(combat.DamageInput{
		BaseMin:     in.Base.MinDamage,
		BaseMax:     in.Base.MaxDamage,
		AttackType:  in.AttackType,
		SkillLevels: in.Skills,
		Pets:        in.Pets,
		Mastery:     mb,
		Equipment:   in.Equipment,
	})

	c := model.Combatant{
		Name:        in.Name,
		Attack:      in.Base.Attack + total.Get(model.StatAttack),
		Defense:     in.Base.Defense + total.Get(model.StatDefense),
		MinDamage:   float64(dr.Min),
		MaxDamage:   float64(dr.Max),
		AttackSpeed: in.Base.AttackSpeed + total.Get(model.StatAttackSpeed),
		CritChance:  in.Base.CritChance + total.Get(model.StatCritChance),
		CritDamage:  in.Base.CritDamage + total.Get(model.StatCritDamage),
		MaxHealth:   in.Base.Health + total.Get(model.StatHealth),
	}
	c = clamp(c)
	c.CurrentHealth = c.MaxHealth
	return c
}

// addSkill adds level × per-level bonus of skill. When only is given, just those
// stats are taken (damage bounds are handled by the damage model).
func addSkill(total model.StatBlock, skill string, level int, only ...model.Stat) {
	level = max(level, 1)
	per := model.SkillBonusPerLevel(skill)
	if len(only) > 0 {
		for _, st := range only {
			total[st] += float64(level) * per.Get(st)
		}
		return
	}
	for st, v := range per {
		total[st] += float64(level) * v
	}
}

func clamp(c model.Combatant) model.Combatant {
	c.Attack = max(c.Attack, model.MinAttack)
	c.Defense = max(c.Defense, model.MinDefense)
	c.MaxHealth = max(c.MaxHealth, model.MinHealth)
	c.AttackSpeed = max(c.AttackSpeed, model.MinAttackSpeed)
	c.CritChance = min(max(c.CritChance, 0), model.MaxCritChance)
	c.CritDamage = max(c.CritDamage, model.MinCritDamage)
	return c
}

// Enemy builds the combatant of a static enemy definition at full health.
// Missing damage bounds default to [ATK/2, ATK] and crit to 5% / 150%.
func Enemy(e model.Enemy) model.Combatant {
	minDmg, maxDmg := e.MinDamage, e.MaxDamage
	if maxDmg <= 0 {
		minDmg, maxDmg = max(1, e.ATK/2), max(1, e.ATK)
	}
	minDmg = max(minDmg, 1)
	maxDmg = max(maxDmg, minDmg)

	critDamage := e.CritDamage
	if critDamage == 0 {
		critDamage = 150
	}
	critChance := e.CritChance
	if critChance == 0 {
		critChance = 5
	}
	speed := e.AttackSpeed
	if speed == 0 {
		speed = 1
	}

	c := clamp(model.Combatant{
		Name:        e.Name,
		Attack:      e.ATK,
		Defense:     e.DEF,
		MinDamage:   minDmg,
		MaxDamage:   maxDmg,
		AttackSpeed: speed,
		CritChance:  critChance,
		CritDamage:  critDamage,
		MaxHealth:   e.MaxHP,
	})
	c.CurrentHealth = c.MaxHealth
	return c
}
