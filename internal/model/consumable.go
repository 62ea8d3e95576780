package model

import "time"

// Potion is the static definition of a healing potion.
type Potion struct {
	ID    string  `yaml:"id" json:"id"`
	Name  string  `yaml:"name" json:"name"`
	Heal  float64 `yaml:"heal" json:"heal"`
	Price int64   `yaml:"price" json:"price"`
}

// AutoPotion configures automatic potion use during battle.
type AutoPotion struct {
	Enabled   bool     `json:"enabled"`
	Threshold float64  `json:"threshold"` // health percent
	Priority  []string `json:"priority"`  // potion ids, first available is used
}

// BuffKind is the engine output a buff multiplies.
type BuffKind string

const (
	BuffGold       BuffKind = "gold"
	BuffDamage     BuffKind = "damage"
	BuffCrit       BuffKind = "crit"
	BuffSpeed      BuffKind = "speed"
	BuffAutoPotion BuffKind = "auto_potion"
)

// BuffDef is the static definition of a purchasable buff.
type BuffDef struct {
	ID         string        `yaml:"id" json:"id"`
	Name       string        `yaml:"name" json:"name"`
	Kind       BuffKind      `yaml:"kind" json:"kind"`
	Multiplier float64       `yaml:"multiplier" json:"multiplier"`
	Duration   time.Duration `yaml:"duration" json:"duration"`
	Price      int64         `yaml:"price" json:"price"`
}

// ActiveBuff is a buff currently applied to a save slot.
type ActiveBuff struct {
	ID         string    `json:"id"`
	Kind       BuffKind  `json:"kind"`
	Multiplier float64   `json:"multiplier"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Active reports whether the buff is still running at now.
func (b ActiveBuff) Active(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}

// DefaultAutoPotion is the auto-potion setting of a new save slot.
func DefaultAutoPotion() AutoPotion {
	return AutoPotion{Threshold: 30, Priority: []string{"small_potion", "medium_potion", "large_potion"}}
}
