package achievement

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
)

func TestMain(m *testing.M) {
	data.MustLoad()
	os.Exit(m.Run())
}

// mockRepo is an in-memory Repository.
type mockRepo struct {
	saved   model.Achievements
	saves   int
	loadErr error
	saveErr error
}

func (r *mockRepo) GetAchievements(_ context.Context, _ string) (model.Achievements, error) {
	if r.loadErr != nil {
		return model.Achievements{}, r.loadErr
	}
	return r.saved, nil
}

func (r *mockRepo) SaveAchievements(_ context.Context, _ string, a model.Achievements) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = a
	return nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecordKill_UnlocksOnceAtThreshold(t *testing.T) {
	repo := &mockRepo{saved: model.Achievements{Kills: map[string]int{"goblin": 9}}}
	tr := NewTracker(context.Background(), "slot-1", repo)
	tr.SetClock(func() time.Time { return fixedNow })

	unlocked, err := tr.RecordKill(context.Background(), "goblin")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, RewardUnlockHP, unlocked[0].Reward)
	assert.Equal(t, 10, unlocked[0].KillCount)
	assert.Equal(t, fixedNow, unlocked[0].UnlockedAt)
	assert.True(t, tr.IsUnlocked("goblin", 10))
	assert.Contains(t, repo.saved.Unlocked, "goblin_10")

	unlocked, err = tr.RecordKill(context.Background(), "goblin")
	require.NoError(t, err)
	assert.Empty(t, unlocked, "thresholds unlock exactly once")
	assert.Equal(t, 11, tr.Kills("goblin"))
	assert.Equal(t, 11, repo.saved.Kills["goblin"])
}

func TestRecordKill_CatchesUpSeveralThresholds(t *testing.T) {
	repo := &mockRepo{saved: model.Achievements{Kills: map[string]int{"wolf": 60}}}
	tr := NewTracker(context.Background(), "slot-1", repo)

	unlocked, err := tr.RecordKill(context.Background(), "wolf")
	require.NoError(t, err)

	rewards := make([]string, 0, len(unlocked))
	for _, u := range unlocked {
		rewards = append(rewards, u.Reward)
	}
	assert.Equal(t, []string{RewardUnlockHP, RewardUnlockATK, RewardUnlockDEF}, rewards)
	assert.False(t, tr.IsUnlocked("wolf", 100))
}

func TestNewTracker_LoadFailureUsesDefaults(t *testing.T) {
	repo := &mockRepo{loadErr: errors.New("corrupt row")}
	tr := NewTracker(context.Background(), "slot-1", repo)

	assert.Zero(t, tr.Kills("goblin"))
	_, err := tr.RecordKill(context.Background(), "goblin")
	assert.NoError(t, err)
	assert.Equal(t, 1, tr.Kills("goblin"))
}

func TestRecordKill_SaveFailureKeepsState(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("disk full")}
	tr := NewTracker(context.Background(), "slot-1", repo)

	_, err := tr.RecordKill(context.Background(), "slime")
	assert.Error(t, err)
	assert.Equal(t, 1, tr.Kills("slime"))
	assert.Equal(t, 1, repo.saves)
}

func TestRevealedStat(t *testing.T) {
	repo := &mockRepo{saved: model.Achievements{Kills: map[string]int{"goblin": 24}}}
	tr := NewTracker(context.Background(), "slot-1", repo)

	assert.Equal(t, Hidden, tr.RevealedStat("goblin", StatHP))

	_, err := tr.RecordKill(context.Background(), "goblin")
	require.NoError(t, err)

	assert.Equal(t, "50", tr.RevealedStat("goblin", StatHP))
	assert.Equal(t, "8", tr.RevealedStat("goblin", StatATK))
	assert.Equal(t, Hidden, tr.RevealedStat("goblin", StatDEF))
	assert.Equal(t, Hidden, tr.RevealedStat("goblin", "speed"))
	assert.Equal(t, Hidden, tr.RevealedStat("slime", StatHP))
}

func TestRevealedStat_UnlockAll(t *testing.T) {
	tr := NewTracker(context.Background(), "slot-1", nil)
	for range 100 {
		_, err := tr.RecordKill(context.Background(), "slime")
		require.NoError(t, err)
	}
	assert.Equal(t, "2", tr.RevealedStat("slime", StatDEF))
	assert.Len(t, tr.Snapshot().Unlocked, 4)
}
