package combat

import (
	"sync"

	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/model"
)

// recordingAwarder records every XP award instead of applying it.
type recordingAwarder struct {
	mu    sync.Mutex
	calls []xpCall
}

type xpCall struct {
	Key    string
	Damage int
	Crit   bool
	Hit    bool
}

func (a *recordingAwarder) AwardXP(key string, damage int, crit, hit bool) progression.Award {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, xpCall{Key: key, Damage: damage, Crit: crit, Hit: hit})
	return progression.Award{XPAwarded: 1, SkillsAwarded: []string{key}}
}

func (a *recordingAwarder) keys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	for i, c := range a.calls {
		out[i] = c.Key
	}
	return out
}

func newTestCombatant(name string, atk, def, minDmg, maxDmg, hp float64) model.Combatant {
	return model.Combatant{
		Name:          name,
		Attack:        atk,
		Defense:       def,
		MinDamage:     minDmg,
		MaxDamage:     maxDmg,
		AttackSpeed:   1,
		CritChance:    5,
		CritDamage:    150,
		CurrentHealth: hp,
		MaxHealth:     hp,
	}
}
