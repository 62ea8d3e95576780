package progression

import (
	"fmt"

	"github.com/alper6161/idle-chaos/internal/model"
)

// MasteryLevels are the canonical skill breakpoints.
var MasteryLevels = [...]int{10, 25, 50, 75, 99}

// Mastery is a read-only description of one skill breakpoint.
type Mastery struct {
	Skill       string `json:"skill"`
	Level       int    `json:"level"`
	Description string `json:"description"`
	Met         bool   `json:"met"`
}

// masteryTemplates are per-category descriptions indexed like MasteryLevels.
var masteryTemplates = map[string][len(MasteryLevels)]string{
	model.CategoryMelee: {
		"Novice %s: +%d%% attack with %s",
		"Adept %s: improved damage range",
		"Expert %s: heavier critical strikes",
		"Master %s: rarely outmatched in melee",
		"Grandmaster %s: legendary weapon mastery",
	},
	model.CategoryRanged: {
		"Novice %s: +%d%% attack with %s",
		"Adept %s: steadier aim",
		"Expert %s: piercing shots",
		"Master %s: deadly at any range",
		"Grandmaster %s: never wastes a shot",
	},
	model.CategoryMagic: {
		"Novice %s: +%d%% attack with %s",
		"Adept %s: stronger spell surges",
		"Expert %s: wider damage range",
		"Master %s: elemental attunement",
		"Grandmaster %s: archmage of the element",
	},
	model.CategoryDefense: {
		"Novice %s: +%d%% benefit from %s",
		"Adept %s: sturdier stance",
		"Expert %s: hard to bring down",
		"Master %s: unshakeable",
		"Grandmaster %s: living fortress",
	},
	model.CategoryPassive: {
		"Novice %s: +%d%% benefit from %s",
		"Adept %s: sharper instincts",
		"Expert %s: lethal precision",
		"Master %s: strikes find every weakness",
		"Grandmaster %s: perfect execution",
	},
	model.CategorySupport: {
		"Novice %s: +%d%% benefit from %s",
		"Adept %s: faster recovery",
		"Expert %s: potent restoration",
		"Master %s: renewing aura",
		"Grandmaster %s: undying",
	},
}

func describe(skill string, idx int) string {
	tmpl, ok := masteryTemplates[model.CategoryOf(skill)]
	if !ok {
		return ""
	}
	if idx == 0 {
		return fmt.Sprintf(tmpl[0], skill, MasteryLevels[0], skill)
	}
	return fmt.Sprintf(tmpl[idx], skill)
}

// AllBreakpoints returns every breakpoint of skill, marking the ones met at level.
// Returns nil for unknown skills.
func AllBreakpoints(skill string, level int) []Mastery {
	if model.CategoryOf(skill) == "" {
		return nil
	}
	out := make([]Mastery, 0, len(MasteryLevels))
	for i, lvl := range MasteryLevels {
		out = append(out, Mastery{
			Skill:       skill,
			Level:       lvl,
			Description: describe(skill, i),
			Met:         level >= lvl,
		})
	}
	return out
}

// Breakpoints returns only the breakpoints of skill met at level.
func Breakpoints(skill string, level int) []Mastery {
	var met []Mastery
	for _, m := range AllBreakpoints(skill, level) {
		if m.Met {
			met = append(met, m)
		}
	}
	return met
}
