package model

// MaxSkillLevel is the highest achievable skill level.
const MaxSkillLevel = 99

// Skill categories. Every skill belongs to exactly one category.
const (
	CategoryMelee   = "melee"
	CategoryRanged  = "ranged"
	CategoryMagic   = "magic"
	CategoryDefense = "defense"
	CategoryPassive = "passive"
	CategorySupport = "support"
)

// Skill names.
const (
	SkillStab       = "stab"
	SkillSlash      = "slash"
	SkillCrush      = "crush"
	SkillArchery    = "archery"
	SkillThrowing   = "throwing"
	SkillLightning  = "lightning"
	SkillFire       = "fire"
	SkillIce        = "ice"
	SkillBlock      = "block"
	SkillDodge      = "dodge"
	SkillArmor      = "armor"
	SkillHP         = "hp"
	SkillCritChance = "critChance"
	SkillCritDamage = "critDamage"
	SkillHeal       = "heal"
)

// SkillCategories lists every skill per category. Order is stable for display.
var SkillCategories = map[string][]string{
	CategoryMelee:   {SkillStab, SkillSlash, SkillCrush},
	CategoryRanged:  {SkillArchery, SkillThrowing},
	CategoryMagic:   {SkillLightning, SkillFire, SkillIce},
	CategoryDefense: {SkillBlock, SkillDodge, SkillArmor, SkillHP},
	CategoryPassive: {SkillCritChance, SkillCritDamage},
	CategorySupport: {SkillHeal},
}

// CategoryOf returns the category of skill, or "" for unknown skills.
func CategoryOf(skill string) string {
	for cat, skills := range SkillCategories {
		for _, s := range skills {
			if s == skill {
				return cat
			}
		}
	}
	return ""
}

// skillBonusPerLevel holds the stat bonus each skill grants per level.
// Skills without an entry (heal) grant nothing.
var skillBonusPerLevel = map[string]StatBlock{
	SkillStab:      {StatAttack: 1.0, StatMinDamage: 0.3, StatMaxDamage: 0.5},
	SkillSlash:     {StatAttack: 0.8, StatMinDamage: 0.4, StatMaxDamage: 0.7},
	SkillCrush:     {StatAttack: 0.6, StatMinDamage: 0.5, StatMaxDamage: 0.9},
	SkillArchery:   {StatAttack: 1.0, StatMinDamage: 0.3, StatMaxDamage: 0.6},
	SkillThrowing:  {StatAttack: 0.9, StatMinDamage: 0.4, StatMaxDamage: 0.5},
	SkillLightning: {StatAttack: 0.5, StatMinDamage: 0.2, StatMaxDamage: 1.0},
	SkillFire:      {StatAttack: 0.5, StatMinDamage: 0.4, StatMaxDamage: 0.8},
	SkillIce:       {StatAttack: 0.5, StatMinDamage: 0.5, StatMaxDamage: 0.6},

	SkillBlock: {StatDefense: 0.5},
	SkillDodge: {StatDefense: 0.3, StatAttackSpeed: 0.005},
	SkillArmor: {StatDefense: 1.0},
	SkillHP:    {StatHealth: 5},

	SkillCritChance: {StatCritChance: 0.2},
	SkillCritDamage: {StatCritDamage: 1.0},
}

// SkillBonusPerLevel returns the per-level bonus of skill. Never nil.
func SkillBonusPerLevel(skill string) StatBlock {
	if b, ok := skillBonusPerLevel[skill]; ok {
		return b
	}
	return StatBlock{}
}

// Skill is the progress of one named ability.
type Skill struct {
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
}

// SkillSet maps category → skill name → progress.
type SkillSet map[string]map[string]Skill

// NewSkillSet returns a fresh set with every known skill at level 1, 0 xp.
func NewSkillSet() SkillSet {
	set := make(SkillSet, len(SkillCategories))
	for cat, skills := range SkillCategories {
		m := make(map[string]Skill, len(skills))
		for _, s := range skills {
			m[s] = Skill{Level: 1}
		}
		set[cat] = m
	}
	return set
}

// Get returns the progress of skill, defaulting to level 1.
func (s SkillSet) Get(skill string) Skill {
	cat := CategoryOf(skill)
	if sk, ok := s[cat][skill]; ok {
		return sk
	}
	return Skill{Level: 1}
}

// Level returns the level of skill (1 if unknown or missing).
func (s SkillSet) Level(skill string) int {
	lvl := s.Get(skill).Level
	if lvl < 1 {
		return 1
	}
	return lvl
}

// Set stores progress for skill. Unknown skills are ignored.
func (s SkillSet) Set(skill string, progress Skill) {
	cat := CategoryOf(skill)
	if cat == "" {
		return
	}
	if s[cat] == nil {
		s[cat] = make(map[string]Skill)
	}
	s[cat][skill] = progress
}

// Levels flattens the set into skill → level.
func (s SkillSet) Levels() map[string]int {
	out := make(map[string]int, 16)
	for _, skills := range SkillCategories {
		for _, sk := range skills {
			out[sk] = s.Level(sk)
		}
	}
	return out
}

// Clone returns a deep copy.
func (s SkillSet) Clone() SkillSet {
	out := make(SkillSet, len(s))
	for cat, skills := range s {
		m := make(map[string]Skill, len(skills))
		for k, v := range skills {
			m[k] = v
		}
		out[cat] = m
	}
	return out
}

// Normalize fills missing categories/skills with level 1 entries and repairs
// out-of-range values read from storage.
func (s SkillSet) Normalize() SkillSet {
	out := NewSkillSet()
	for cat, skills := range s {
		for name, sk := range skills {
			if CategoryOf(name) != cat {
				continue
			}
			if sk.XP < 0 {
				sk.XP = 0
			}
			sk.Level = min(max(sk.Level, 1), MaxSkillLevel)
			out[cat][name] = sk
		}
	}
	return out
}
