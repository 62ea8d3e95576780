package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttackType is returned when an attack type name does not match any variant.
var ErrUnknownAttackType = errors.New("unknown attack type")

// AttackType is the offensive style the player fights with.
// The zero value AttackNone is used for enemies and contexts without a style.
type AttackType int

const (
	AttackNone AttackType = iota
	AttackStab
	AttackSlash
	AttackCrush
	AttackArchery
	AttackThrowing
	AttackLightning
	AttackFire
	AttackIce
)

type attackTypeInfo struct {
	skill    string
	category string
	magic    bool
}

var attackTypes = [...]attackTypeInfo{
	AttackNone:      {},
	AttackStab:      {skill: SkillStab, category: CategoryMelee},
	AttackSlash:     {skill: SkillSlash, category: CategoryMelee},
	AttackCrush:     {skill: SkillCrush, category: CategoryMelee},
	AttackArchery:   {skill: SkillArchery, category: CategoryRanged},
	AttackThrowing:  {skill: SkillThrowing, category: CategoryRanged},
	AttackLightning: {skill: SkillLightning, category: CategoryMagic, magic: true},
	AttackFire:      {skill: SkillFire, category: CategoryMagic, magic: true},
	AttackIce:       {skill: SkillIce, category: CategoryMagic, magic: true},
}

// AttackTypes lists every selectable attack type.
func AttackTypes() []AttackType {
	return []AttackType{
		AttackStab, AttackSlash, AttackCrush,
		AttackArchery, AttackThrowing,
		AttackLightning, AttackFire, AttackIce,
	}
}

func (a AttackType) info() attackTypeInfo {
	if a < 0 || int(a) >= len(attackTypes) {
		return attackTypeInfo{}
	}
	return attackTypes[a]
}

// Skill returns the skill trained by this attack type ("" for AttackNone).
func (a AttackType) Skill() string { return a.info().skill }

// Category returns the skill category of this attack type.
func (a AttackType) Category() string { return a.info().category }

// IsMagic reports whether attacks of this type never miss.
func (a AttackType) IsMagic() bool { return a.info().magic }

// PerLevelBonus returns the ATK / MIN_DAMAGE / MAX_DAMAGE gained per skill level.
func (a AttackType) PerLevelBonus() StatBlock {
	if a.Skill() == "" {
		return StatBlock{}
	}
	return SkillBonusPerLevel(a.Skill())
}

// String returns the skill name, or "none".
func (a AttackType) String() string {
	if s := a.Skill(); s != "" {
		return s
	}
	return "none"
}

// ParseAttackType resolves a skill name (case-insensitive) to its attack type.
func ParseAttackType(name string) (AttackType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, at := range AttackTypes() {
		if at.Skill() == name {
			return at, nil
		}
	}
	return AttackNone, fmt.Errorf("%w: %q", ErrUnknownAttackType, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a AttackType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AttackType) UnmarshalText(text []byte) error {
	if string(text) == "none" || len(text) == 0 {
		*a = AttackNone
		return nil
	}
	at, err := ParseAttackType(string(text))
	if err != nil {
		return err
	}
	*a = at
	return nil
}
