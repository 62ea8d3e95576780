// Package dungeon implements fixed-sequence dungeon runs ending in a boss and a chest.
package dungeon

import (
	"errors"
	"time"

	"github.com/alper6161/idle-chaos/internal/model"
)

var (
	// ErrConfirmationRequired is returned when leaving a running dungeon without confirming.
	ErrConfirmationRequired = errors.New("leaving the dungeon forfeits progress: confirmation required")
	// ErrNotRunning is returned for actions that need an active run.
	ErrNotRunning = errors.New("dungeon run is not active")
)

// DefaultRestartCountdown is the pause between a completed run and the next one.
const DefaultRestartCountdown = 5 * time.Second

// Status of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusExited    Status = "exited"
)

// Run is the progress of one dungeon attempt. Stages 0..len(Enemies)-1 are
// regular fights; stage len(Enemies) is the boss. Not safe for concurrent use.
type Run struct {
	DungeonID   string        `json:"dungeonId"`
	Name        string        `json:"name"`
	Stage       int           `json:"stage"`
	Stages      int           `json:"stages"` // regular stages + boss
	Status      Status        `json:"status"`
	Chest       string        `json:"chest,omitempty"`
	RestartIn   time.Duration `json:"restartIn,omitempty"`
	AutoRestart bool          `json:"autoRestart"`
	Runs        int           `json:"runs"` // completed runs this session

	enemies      []string
	boss         string
	countdown    time.Duration
	chestAwarded bool
}

// NewRun starts a run of d at stage 0.
func NewRun(d model.Dungeon, countdown time.Duration, autoRestart bool) *Run {
	if countdown <= 0 {
		countdown = DefaultRestartCountdown
	}
	return &Run{
		DungeonID:   d.ID,
		Name:        d.Name,
		Stages:      len(d.Enemies) + 1,
		Status:      StatusRunning,
		AutoRestart: autoRestart,
		enemies:     append([]string(nil), d.Enemies...),
		boss:        d.Boss,
		countdown:   countdown,
	}
}

// BossStage returns the index of the boss stage.
func (r *Run) BossStage() int { return len(r.enemies) }

// IsBossStage reports whether the current stage is the boss.
func (r *Run) IsBossStage() bool { return r.Stage >= r.BossStage() }

// CurrentEnemy returns the enemy id of the current stage.
func (r *Run) CurrentEnemy() string {
	if r.IsBossStage() {
		return r.boss
	}
	return r.enemies[r.Stage]
}

// Active reports whether fights are still being spawned.
func (r *Run) Active() bool { return r.Status == StatusRunning }

// Advance records a victory over the current stage. It returns true when the
// boss was defeated and the run completed.
func (r *Run) Advance() (completed bool) {
	if r.Status != StatusRunning {
		return false
	}
	if r.IsBossStage() {
		r.Status = StatusCompleted
		r.RestartIn = r.countdown
		r.Runs++
		return true
	}
	r.Stage++
	return false
}

// ClaimChest marks the chest as awarded and returns true the first time it is
// called on a completed run.
func (r *Run) ClaimChest(name string) bool {
	if r.Status != StatusCompleted || r.chestAwarded {
		return false
	}
	r.chestAwarded = true
	r.Chest = name
	return true
}

// Fail ends the run after the player died.
func (r *Run) Fail() {
	if r.Status == StatusRunning {
		r.Status = StatusFailed
	}
}

// Exit leaves the dungeon. Leaving a running dungeon forfeits its progress and
// requires confirm.
func (r *Run) Exit(confirm bool) error {
	if r.Status == StatusRunning && !confirm {
		return ErrConfirmationRequired
	}
	r.Status = StatusExited
	r.RestartIn = 0
	return nil
}

// Tick advances the restart countdown of a completed run by elapsed. It returns
// true when the countdown finished and the run restarted.
func (r *Run) Tick(elapsed time.Duration) (restarted bool) {
	if r.Status != StatusCompleted || r.RestartIn <= 0 {
		return false
	}
	r.RestartIn -= elapsed
	if r.RestartIn > 0 {
		return false
	}
	r.RestartIn = 0
	if !r.AutoRestart {
		return false
	}
	r.Restart()
	return true
}

// Restart begins a new attempt of the same dungeon.
func (r *Run) Restart() {
	r.Stage = 0
	r.Status = StatusRunning
	r.Chest = ""
	r.RestartIn = 0
	r.chestAwarded = false
}
