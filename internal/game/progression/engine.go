// Package progression awards skill experience for combat actions and levels skills up
// against a cumulative XP curve.
package progression

import (
	"log/slog"
	"sync"

	"github.com/alper6161/idle-chaos/internal/model"
)

// Action keys that are not attack-type skills.
const (
	ActionDamageTaken = "damage_taken"
	ActionDodge       = "dodge"
	ActionHeal        = "heal"
)

// missXP is awarded to the primary skill when an attack misses.
const missXP = 1

type rule struct {
	base      int64
	divisor   int64 // 0 disables the damage term
	critBonus int64
	skills    []string
	critExtra []string // awarded in addition on a critical hit
}

var attackRule = rule{
	base:      4,
	divisor:   2,
	critBonus: 5,
	critExtra: []string{model.SkillCritChance, model.SkillCritDamage},
}

var actionRules = map[string]rule{
	ActionDamageTaken: {base: 2, divisor: 3, critBonus: 2, skills: []string{model.SkillArmor, model.SkillBlock, model.SkillHP}},
	ActionDodge:       {base: 3, skills: []string{model.SkillDodge}},
	ActionHeal:        {base: 3, divisor: 5, skills: []string{model.SkillHeal}},
}

// LevelUp describes one skill gaining levels.
type LevelUp struct {
	Skill string `json:"skill"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// Award is the result of one AwardXP call.
type Award struct {
	XPAwarded     int64     `json:"xpAwarded"`
	SkillsAwarded []string  `json:"skillsAwarded"`
	LeveledUp     bool      `json:"leveledUp"`
	LevelUps      []LevelUp `json:"levelUps,omitempty"`
}

// Engine owns the skill progress of one save slot.
type Engine struct {
	mu           sync.Mutex
	skills       model.SkillSet
	xpMultiplier float64
}

// NewEngine creates an engine over a copy of skills. xpMultiplier <= 0 means 1.
func NewEngine(skills model.SkillSet, xpMultiplier float64) *Engine {
	if skills == nil {
		skills = model.NewSkillSet()
	}
	if xpMultiplier <= 0 {
		xpMultiplier = 1
	}
	return &Engine{skills: reconcile(skills), xpMultiplier: xpMultiplier}
}

// reconcile normalizes skills and derives every level from its XP. A stored
// level never overrides the experience table.
func reconcile(skills model.SkillSet) model.SkillSet {
	out := skills.Normalize()
	for _, byName := range out {
		for name, sk := range byName {
			sk.Level = LevelForXP(sk.XP, 1)
			byName[name] = sk
		}
	}
	return out
}

// Skills returns a copy of the current skill set.
func (e *Engine) Skills() model.SkillSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skills.Clone()
}

// Replace swaps in a skill set read from storage.
func (e *Engine) Replace(skills model.SkillSet) {
	e.mu.Lock()
	e.skills = reconcile(skills)
	e.mu.Unlock()
}

// Level returns the current level of skill.
func (e *Engine) Level(skill string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skills.Level(skill)
}

// XPFor computes the XP of one action without applying it. Never less than 1.
func XPFor(key string, damage int, crit, hit bool) int64 {
	r, ok := ruleFor(key)
	if !ok {
		return 0
	}
	if !hit {
		return missXP
	}
	xp := r.base
	if r.divisor > 0 && damage > 0 {
		xp += int64(damage) / r.divisor
	}
	if crit {
		xp += r.critBonus
	}
	return max(xp, 1)
}

func ruleFor(key string) (rule, bool) {
	if r, ok := actionRules[key]; ok {
		return r, true
	}
	if _, err := model.ParseAttackType(key); err == nil {
		r := attackRule
		r.skills = []string{key}
		return r, true
	}
	return rule{}, false
}

// AwardXP awards XP for one action. key is an attack-type skill name (the player
// attacked) or one of the Action* keys. Unknown keys award nothing.
func (e *Engine) AwardXP(key string, damage int, crit, hit bool) Award {
	r, ok := ruleFor(key)
	if !ok {
		slog.Warn("xp award for unknown action", "action", key)
		return Award{}
	}

	xp := XPFor(key, damage, crit, hit)
	xp = max(int64(float64(xp)*e.xpMultiplier), 1)

	skills := r.skills
	if hit && crit && len(r.critExtra) > 0 {
		skills = append(append([]string(nil), skills...), r.critExtra...)
	}

	award := Award{XPAwarded: xp, SkillsAwarded: skills}
	for _, sk := range skills {
		if lu, ok := e.AddXP(sk, xp); ok {
			award.LeveledUp = true
			award.LevelUps = append(award.LevelUps, lu)
		}
	}
	return award
}

// AddXP adds raw XP to skill and recomputes its level.
// Returns the level change, if any. Adding zero or negative XP is a no-op.
func (e *Engine) AddXP(skill string, amount int64) (LevelUp, bool) {
	if amount <= 0 || model.CategoryOf(skill) == "" {
		return LevelUp{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.skills.Get(skill)
	cur.XP += amount
	oldLevel := cur.Level
	cur.Level = LevelForXP(cur.XP, oldLevel)
	e.skills.Set(skill, cur)

	if cur.Level <= oldLevel {
		return LevelUp{}, false
	}

	slog.Info("skill leveled up",
		"skill", skill,
		"oldLevel", oldLevel,
		"newLevel", cur.Level,
		"xp", cur.XP)

	return LevelUp{Skill: skill, From: oldLevel, To: cur.Level}, true
}
