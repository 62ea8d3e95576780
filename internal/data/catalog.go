package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/alper6161/idle-chaos/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrNotFound is returned by lookups of unknown static ids.
var ErrNotFound = errors.New("not found")

// EquipmentTemplate is the base definition items are generated from.
type EquipmentTemplate struct {
	Name       string          `yaml:"name"`
	Type       model.Slot      `yaml:"type"`
	WeaponType string          `yaml:"weapon_type"`
	Stats      model.StatBlock `yaml:"stats"`
}

type catalog struct {
	PlayerBase        model.BaseStats     `yaml:"player_base"`
	DefaultThresholds []model.Threshold   `yaml:"default_thresholds"`
	Enemies           []model.Enemy       `yaml:"enemies"`
	Locations         []model.Location    `yaml:"locations"`
	Dungeons          []model.Dungeon     `yaml:"dungeons"`
	Equipment         []EquipmentTemplate `yaml:"equipment"`
	Pets              []model.Pet         `yaml:"pets"`
	Potions           []model.Potion      `yaml:"potions"`
	Buffs             []model.BuffDef     `yaml:"buffs"`
}

// Static tables, populated by Load.
var (
	PlayerBase        model.BaseStats
	DefaultThresholds []model.Threshold

	EnemyTable     map[string]*model.Enemy
	LocationTable  map[string]*model.Location
	DungeonTable   map[string]*model.Dungeon
	EquipmentTable map[string]*EquipmentTemplate
	PetTable       map[string]*model.Pet
	PotionTable    map[string]*model.Potion
	BuffTable      map[string]*model.BuffDef
)

// Load parses the embedded catalog and builds the lookup tables.
func Load() error {
	return LoadFrom(catalogYAML)
}

// LoadFrom parses a catalog document and replaces all tables.
func LoadFrom(doc []byte) error {
	var c catalog
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	if err := validate(&c); err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}

	PlayerBase = c.PlayerBase
	DefaultThresholds = c.DefaultThresholds

	EnemyTable = make(map[string]*model.Enemy, len(c.Enemies))
	for i := range c.Enemies {
		EnemyTable[c.Enemies[i].ID] = &c.Enemies[i]
	}
	LocationTable = make(map[string]*model.Location, len(c.Locations))
	for i := range c.Locations {
		LocationTable[c.Locations[i].ID] = &c.Locations[i]
	}
	DungeonTable = make(map[string]*model.Dungeon, len(c.Dungeons))
	for i := range c.Dungeons {
		DungeonTable[c.Dungeons[i].ID] = &c.Dungeons[i]
	}
	EquipmentTable = make(map[string]*EquipmentTemplate, len(c.Equipment))
	for i := range c.Equipment {
		EquipmentTable[c.Equipment[i].Name] = &c.Equipment[i]
	}
	PetTable = make(map[string]*model.Pet, len(c.Pets))
	for i := range c.Pets {
		PetTable[c.Pets[i].ID] = &c.Pets[i]
	}
	PotionTable = make(map[string]*model.Potion, len(c.Potions))
	for i := range c.Potions {
		PotionTable[c.Potions[i].ID] = &c.Potions[i]
	}
	BuffTable = make(map[string]*model.BuffDef, len(c.Buffs))
	for i := range c.Buffs {
		BuffTable[c.Buffs[i].ID] = &c.Buffs[i]
	}

	slog.Info("loaded static catalog",
		"enemies", len(EnemyTable),
		"locations", len(LocationTable),
		"dungeons", len(DungeonTable),
		"equipment", len(EquipmentTable),
		"pets", len(PetTable))
	return nil
}

func validate(c *catalog) error {
	enemies := make(map[string]bool, len(c.Enemies))
	for _, e := range c.Enemies {
		if e.ID == "" {
			return errors.New("enemy without id")
		}
		if e.MaxHP <= 0 {
			return fmt.Errorf("enemy %q: max_hp must be > 0", e.ID)
		}
		for _, d := range e.Drops {
			if d.Chance < 0 || d.Chance > 1 {
				return fmt.Errorf("enemy %q drop %q: chance %v out of [0,1]", e.ID, d.Name, d.Chance)
			}
		}
		enemies[e.ID] = true
	}
	for _, l := range c.Locations {
		for _, id := range l.Enemies {
			if !enemies[id] {
				return fmt.Errorf("location %q references unknown enemy %q", l.ID, id)
			}
		}
	}
	for _, d := range c.Dungeons {
		if len(d.Enemies) == 0 {
			return fmt.Errorf("dungeon %q has no stage enemies", d.ID)
		}
		for _, id := range append([]string{d.Boss}, d.Enemies...) {
			if !enemies[id] {
				return fmt.Errorf("dungeon %q references unknown enemy %q", d.ID, id)
			}
		}
	}
	return nil
}

// GetEnemy returns the enemy definition, or nil if unknown.
func GetEnemy(id string) *model.Enemy {
	if EnemyTable == nil {
		return nil
	}
	return EnemyTable[id]
}

// GetLocation returns the location definition, or nil if unknown.
func GetLocation(id string) *model.Location {
	if LocationTable == nil {
		return nil
	}
	return LocationTable[id]
}

// GetDungeon returns the dungeon definition, or nil if unknown.
func GetDungeon(id string) *model.Dungeon {
	if DungeonTable == nil {
		return nil
	}
	return DungeonTable[id]
}

// GetEquipmentTemplate returns the template for a drop name, or nil if unknown.
func GetEquipmentTemplate(name string) *EquipmentTemplate {
	if EquipmentTable == nil {
		return nil
	}
	return EquipmentTable[name]
}

// GetPet returns the pet definition, or nil if unknown.
func GetPet(id string) *model.Pet {
	if PetTable == nil {
		return nil
	}
	return PetTable[id]
}

// GetPotion returns the potion definition, or nil if unknown.
func GetPotion(id string) *model.Potion {
	if PotionTable == nil {
		return nil
	}
	return PotionTable[id]
}

// GetBuff returns the buff definition, or nil if unknown.
func GetBuff(id string) *model.BuffDef {
	if BuffTable == nil {
		return nil
	}
	return BuffTable[id]
}

// ThresholdsFor returns the kill thresholds of an enemy, falling back to the defaults.
func ThresholdsFor(enemyID string) []model.Threshold {
	if e := GetEnemy(enemyID); e != nil && len(e.Thresholds) > 0 {
		return e.Thresholds
	}
	return DefaultThresholds
}

// PetBonuses sums the bonuses of the given pets. Unknown ids are skipped.
func PetBonuses(petIDs []string) model.StatBlock {
	total := make(model.StatBlock, 4)
	for _, id := range petIDs {
		if p := GetPet(id); p != nil {
			total.Add(p.Bonuses)
		}
	}
	return total
}
