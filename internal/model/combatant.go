package model

// Stat floors applied after aggregation.
const (
	MinAttack      = 1.0
	MinDefense     = 1.0
	MinHealth      = 10.0
	MinAttackSpeed = 0.5
	MinCritDamage  = 100.0
	MaxCritChance  = 100.0
)

// BaseStats are the immutable starting stats of the player.
type BaseStats struct {
	Attack      float64 `yaml:"attack" json:"attack"`
	Defense     float64 `yaml:"defense" json:"defense"`
	MinDamage   float64 `yaml:"min_damage" json:"minDamage"`
	MaxDamage   float64 `yaml:"max_damage" json:"maxDamage"`
	AttackSpeed float64 `yaml:"attack_speed" json:"attackSpeed"`
	CritChance  float64 `yaml:"crit_chance" json:"critChance"`
	CritDamage  float64 `yaml:"crit_damage" json:"critDamage"`
	Health      float64 `yaml:"health" json:"health"`
}

// Combatant is the effective stat block of one side of a fight.
// It is rebuilt from persistent inputs on every read and never stored as a whole.
type Combatant struct {
	Name          string  `json:"name"`
	Attack        float64 `json:"attack"`
	Defense       float64 `json:"defense"`
	MinDamage     float64 `json:"minDamage"`
	MaxDamage     float64 `json:"maxDamage"`
	AttackSpeed   float64 `json:"attackSpeed"`
	CritChance    float64 `json:"critChance"` // percent, [0, 100]
	CritDamage    float64 `json:"critDamage"` // percent, >= 100
	CurrentHealth float64 `json:"currentHealth"`
	MaxHealth     float64 `json:"maxHealth"`
}

// Alive reports whether the combatant still has health left.
func (c Combatant) Alive() bool {
	return c.CurrentHealth > 0
}

// HealthPercent returns current health as a percentage of max health.
func (c Combatant) HealthPercent() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return c.CurrentHealth / c.MaxHealth * 100
}

// WithHealth returns a copy with current health set, clamped to [0, MaxHealth].
func (c Combatant) WithHealth(hp float64) Combatant {
	c.CurrentHealth = min(max(hp, 0), c.MaxHealth)
	return c
}

// DamageRange is an inclusive integer damage interval.
type DamageRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
