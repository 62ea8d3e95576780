package model

import (
	"errors"
	"fmt"
)

// ErrUnknownRarity is returned when parsing an unknown rarity name.
var ErrUnknownRarity = errors.New("unknown rarity")

// Rarity of a generated item. Ordered from most to least common.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"common", "uncommon", "rare", "epic", "legendary"}

// Rarities lists all rarities in ascending order.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// String returns the lower-case rarity name.
func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return "unknown"
	}
	return rarityNames[r]
}

// ParseRarity resolves a rarity name.
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i), nil
		}
	}
	return RarityCommon, fmt.Errorf("%w: %q", ErrUnknownRarity, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	v, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Slot is an equipment slot name.
type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotHelmet Slot = "helmet"
	SlotChest  Slot = "chest"
	SlotLegs   Slot = "legs"
	SlotBoots  Slot = "boots"
	SlotGloves Slot = "gloves"
	SlotShield Slot = "shield"
	SlotRing   Slot = "ring"
	SlotAmulet Slot = "amulet"
)

// Slots lists every equipment slot.
func Slots() []Slot {
	return []Slot{SlotWeapon, SlotHelmet, SlotChest, SlotLegs, SlotBoots, SlotGloves, SlotShield, SlotRing, SlotAmulet}
}

// Item is a generated piece of equipment.
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       Slot      `json:"type"`
	Rarity     Rarity    `json:"rarity"`
	Level      int       `json:"level"`
	Stats      StatBlock `json:"stats"`
	WeaponType string    `json:"weaponType,omitempty"`
}

// Equipment maps slot → equipped item. A nil item means the slot is empty.
type Equipment map[Slot]*Item

// Items returns the equipped items, skipping empty slots, in slot order.
func (e Equipment) Items() []*Item {
	out := make([]*Item, 0, len(e))
	for _, slot := range Slots() {
		if it := e[slot]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

// TotalStats sums stats over every equipped item.
func (e Equipment) TotalStats() StatBlock {
	total := make(StatBlock, 8)
	for _, it := range e.Items() {
		total.Add(it.Stats)
	}
	return total
}
