package model

// DropType distinguishes equipment drops from gold drops.
type DropType string

const (
	DropEquipment DropType = "equipment"
	DropGold      DropType = "gold"
)

// DropTableEntry is one independently rolled drop.
// Entries of a table are not normalized: zero, one or many may drop per kill.
type DropTableEntry struct {
	Name   string   `yaml:"name" json:"name"`
	Chance float64  `yaml:"chance" json:"chance"` // probability [0, 1]
	Type   DropType `yaml:"type" json:"type"`
	Value  int      `yaml:"value,omitempty" json:"value,omitempty"` // gold amount
}

// WeightedEntry is a chest reward; Chance is a relative weight, not a probability.
type WeightedEntry struct {
	Name   string  `yaml:"name" json:"name"`
	Chance float64 `yaml:"chance" json:"chance"`
}

// Threshold is a kill-count breakpoint of an enemy.
type Threshold struct {
	KillCount   int    `yaml:"kill_count" json:"killCount"`
	Reward      string `yaml:"reward" json:"reward"`
	Description string `yaml:"description" json:"description"`
}

// Enemy is the static definition of a monster.
type Enemy struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	MaxHP       float64          `yaml:"max_hp" json:"maxHp"`
	ATK         float64          `yaml:"atk" json:"atk"`
	DEF         float64          `yaml:"def" json:"def"`
	AttackSpeed float64          `yaml:"attack_speed" json:"attackSpeed"`
	MinDamage   float64          `yaml:"min_damage,omitempty" json:"minDamage,omitempty"`
	MaxDamage   float64          `yaml:"max_damage,omitempty" json:"maxDamage,omitempty"`
	CritChance  float64          `yaml:"crit_chance,omitempty" json:"critChance,omitempty"`
	CritDamage  float64          `yaml:"crit_damage,omitempty" json:"critDamage,omitempty"`
	Drops       []DropTableEntry `yaml:"drops" json:"drops"`
	Pets        []string         `yaml:"pets,omitempty" json:"pets,omitempty"`
	Thresholds  []Threshold      `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`
}

// Power estimates enemy strength for item generation: maxHp + ATK×2 + DEF.
func (e Enemy) Power() float64 {
	return e.MaxHP + e.ATK*2 + e.DEF
}

// Location is an area with a pool of enemies to fight.
type Location struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Enemies []string `yaml:"enemies" json:"enemies"`
}

// Dungeon is a fixed sequence of regular stages followed by a boss and a chest.
type Dungeon struct {
	ID      string          `yaml:"id" json:"id"`
	Name    string          `yaml:"name" json:"name"`
	Enemies []string        `yaml:"enemies" json:"enemies"`
	Boss    string          `yaml:"boss" json:"boss"`
	Chest   []WeightedEntry `yaml:"chest" json:"chest"`
}

// Pet is a companion granting flat bonuses while equipped.
type Pet struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Bonuses  StatBlock `yaml:"bonuses" json:"bonuses"`
	DropRate float64   `yaml:"drop_rate" json:"dropRate"`
	Rarity   Rarity    `yaml:"rarity" json:"rarity"`
}
