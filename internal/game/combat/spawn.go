package combat

import "time"

// Enemy search defaults: 5 s in 50 ms steps.
const (
	DefaultSpawnDuration = 5 * time.Second
	DefaultSpawnStep     = 50 * time.Millisecond
)

// SpawnTimer is the linear enemy-search countdown shown between fights.
type SpawnTimer struct {
	Steps int `json:"steps"`
	Step  int `json:"step"`
}

// NewSpawnTimer creates a timer covering duration in step increments (at least one step).
func NewSpawnTimer(duration, step time.Duration) SpawnTimer {
	if step <= 0 {
		step = DefaultSpawnStep
	}
	steps := int(duration / step)
	if steps < 1 {
		steps = 1
	}
	return SpawnTimer{Steps: steps}
}

// Advance moves the timer one step and reports whether it completed.
func (t SpawnTimer) Advance() (SpawnTimer, bool) {
	if t.Step < t.Steps {
		t.Step++
	}
	return t, t.Step >= t.Steps
}

// Progress returns completion in percent.
func (t SpawnTimer) Progress() float64 {
	if t.Steps <= 0 {
		return ProgressFull
	}
	return float64(t.Step) / float64(t.Steps) * ProgressFull
}
