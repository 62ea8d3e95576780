package model

import (
	"fmt"
	"time"
)

// Unlock records one reached kill threshold.
type Unlock struct {
	EnemyID     string    `json:"enemyId"`
	KillCount   int       `json:"killThreshold"`
	Reward      string    `json:"reward"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// UnlockKey returns the persisted key of an unlock, "<enemyId>_<threshold>".
func UnlockKey(enemyID string, threshold int) string {
	return fmt.Sprintf("%s_%d", enemyID, threshold)
}

// Achievements is the persisted achievement state of one save slot.
// Unlocked entries are never removed.
type Achievements struct {
	Kills    map[string]int    `json:"kills"`
	Unlocked map[string]Unlock `json:"unlocked"`
}

// NewAchievements returns empty achievement state.
func NewAchievements() Achievements {
	return Achievements{
		Kills:    make(map[string]int),
		Unlocked: make(map[string]Unlock),
	}
}

// Normalize replaces nil maps and negative counters read from storage.
func (a Achievements) Normalize() Achievements {
	if a.Kills == nil {
		a.Kills = make(map[string]int)
	}
	if a.Unlocked == nil {
		a.Unlocked = make(map[string]Unlock)
	}
	for id, k := range a.Kills {
		if k < 0 {
			a.Kills[id] = 0
		}
	}
	return a
}
