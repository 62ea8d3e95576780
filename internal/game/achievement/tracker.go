// Package achievement tracks per-enemy kill counts and the thresholds they unlock.
package achievement

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
)

// Rewards granted by default thresholds.
const (
	RewardUnlockHP  = "unlock_hp"
	RewardUnlockATK = "unlock_atk"
	RewardUnlockDEF = "unlock_def"
	RewardUnlockAll = "unlock_all"
)

// Hidden is shown in place of stats that are not yet revealed.
const Hidden = "???"

// Enemy stats that can be revealed.
const (
	StatHP  = "hp"
	StatATK = "atk"
	StatDEF = "def"
)

var statRewards = map[string]string{
	StatHP:  RewardUnlockHP,
	StatATK: RewardUnlockATK,
	StatDEF: RewardUnlockDEF,
}

// Repository persists achievement state per save slot.
type Repository interface {
	GetAchievements(ctx context.Context, slotID string) (model.Achievements, error)
	SaveAchievements(ctx context.Context, slotID string, a model.Achievements) error
}

// Tracker records kills of one save slot. Thread-safe.
type Tracker struct {
	mu     sync.Mutex
	slotID string
	repo   Repository
	state  model.Achievements
	now    func() time.Time
}

// NewTracker loads the slot's achievements. Unreadable state is replaced by an
// empty record and logged.
func NewTracker(ctx context.Context, slotID string, repo Repository) *Tracker {
	t := &Tracker{slotID: slotID, repo: repo, now: time.Now}
	t.state = t.load(ctx)
	return t
}

// SetClock overrides the unlock timestamp source.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

func (t *Tracker) load(ctx context.Context) model.Achievements {
	if t.repo == nil {
		return model.NewAchievements()
	}
	a, err := t.repo.GetAchievements(ctx, t.slotID)
	if err != nil {
		slog.Warn("loading achievements, using defaults", "slot", t.slotID, "error", err)
		return model.NewAchievements()
	}
	return model.Achievements{Kills: maps.Clone(a.Kills), Unlocked: maps.Clone(a.Unlocked)}.Normalize()
}

// Reload replaces the cached state with the persisted one.
func (t *Tracker) Reload(ctx context.Context) {
	a := t.load(ctx)
	t.mu.Lock()
	t.state = a
	t.mu.Unlock()
}

// RecordKill increments the kill counter of enemyID and returns the thresholds
// unlocked by this kill. Already unlocked thresholds are never returned again.
// On a persistence error the in-memory state is kept and the error returned.
func (t *Tracker) RecordKill(ctx context.Context, enemyID string) ([]model.Unlock, error) {
	t.mu.Lock()
	t.state.Kills[enemyID]++
	kills := t.state.Kills[enemyID]

	var unlocked []model.Unlock
	for _, th := range data.ThresholdsFor(enemyID) {
		if kills < th.KillCount {
			continue
		}
		key := model.UnlockKey(enemyID, th.KillCount)
		if _, ok := t.state.Unlocked[key]; ok {
			continue
		}
		u := model.Unlock{
			EnemyID:     enemyID,
			KillCount:   th.KillCount,
			Reward:      th.Reward,
			Description: th.Description,
			UnlockedAt:  t.now(),
		}
		t.state.Unlocked[key] = u
		unlocked = append(unlocked, u)
	}
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	for _, u := range unlocked {
		slog.Info("achievement unlocked",
			"slot", t.slotID,
			"enemy", enemyID,
			"threshold", u.KillCount,
			"reward", u.Reward)
	}

	if t.repo != nil {
		if err := t.repo.SaveAchievements(ctx, t.slotID, snapshot); err != nil {
			return unlocked, fmt.Errorf("saving achievements for slot %s: %w", t.slotID, err)
		}
	}
	return unlocked, nil
}

// IsUnlocked reports whether the threshold of enemyID has been reached.
func (t *Tracker) IsUnlocked(enemyID string, threshold int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.state.Unlocked[model.UnlockKey(enemyID, threshold)]
	return ok
}

// Kills returns the kill count of enemyID.
func (t *Tracker) Kills(enemyID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Kills[enemyID]
}

// Snapshot returns a copy of the whole achievement state.
func (t *Tracker) Snapshot() model.Achievements {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() model.Achievements {
	return model.Achievements{
		Kills:    maps.Clone(t.state.Kills),
		Unlocked: maps.Clone(t.state.Unlocked),
	}
}

// hasReward reports whether any unlocked threshold of enemyID grants reward.
func (t *Tracker) hasReward(enemyID, reward string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, u := range t.state.Unlocked {
		if u.EnemyID == enemyID && (u.Reward == reward || u.Reward == RewardUnlockAll) {
			return true
		}
	}
	return false
}

// RevealedStat returns the display value of an enemy stat (hp, atk or def), or
// Hidden until the matching reward has been unlocked.
func (t *Tracker) RevealedStat(enemyID, stat string) string {
	reward, ok := statRewards[stat]
	if !ok {
		return Hidden
	}
	e := data.GetEnemy(enemyID)
	if e == nil || !t.hasReward(enemyID, reward) {
		return Hidden
	}

	var v float64
	switch stat {
	case StatHP:
		v = e.MaxHP
	case StatATK:
		v = e.ATK
	case StatDEF:
		v = e.DEF
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
