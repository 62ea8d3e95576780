package session

import (
	"errors"
	"time"

	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/game/dungeon"
	"github.com/alper6161/idle-chaos/internal/game/loot"
	"github.com/alper6161/idle-chaos/internal/rng"
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnknownEnemy    = errors.New("unknown enemy")
	ErrUnknownDungeon  = errors.New("unknown dungeon")
	ErrUnknownItem     = errors.New("item not in bag")
	ErrEmptySlot       = errors.New("equipment slot is empty")
	ErrBagFull         = errors.New("loot bag is full")
	ErrPetNotOwned     = errors.New("pet not owned")
	ErrInvalidSetting  = errors.New("invalid setting")
	// ErrInDungeon is returned for actions that are not allowed during a dungeon run.
	ErrInDungeon = errors.New("not allowed while a dungeon run is active")
	// ErrStopped is returned by commands sent to a session that is not running.
	ErrStopped = errors.New("session stopped")
)

// Mode is what the session is currently hunting.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeLocation Mode = "location"
	ModeEnemy    Mode = "enemy"
	ModeDungeon  Mode = "dungeon"
)

// Config tunes one session.
type Config struct {
	TickInterval     time.Duration
	ProgressPerTick  float64
	SpawnDuration    time.Duration
	SpawnStep        time.Duration
	Strategy         combat.Strategy
	GoldRate         float64
	XPRate           float64
	BagLimit         int
	RestartCountdown time.Duration
	AutoRestart      bool
	LogLimit         int
	// Source drives every roll of the session. nil selects rng.Default().
	Source rng.Source
}

// DefaultConfig returns the stock game tuning.
func DefaultConfig() Config {
	return Config{
		TickInterval:     50 * time.Millisecond,
		ProgressPerTick:  combat.DefaultProgressPerTick,
		SpawnDuration:    combat.DefaultSpawnDuration,
		SpawnStep:        combat.DefaultSpawnStep,
		Strategy:         combat.ExponentialStrategy{},
		GoldRate:         1,
		XPRate:           1,
		BagLimit:         loot.DefaultBagLimit,
		RestartCountdown: dungeon.DefaultRestartCountdown,
		AutoRestart:      true,
		LogLimit:         200,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.ProgressPerTick <= 0 {
		c.ProgressPerTick = def.ProgressPerTick
	}
	if c.SpawnDuration <= 0 {
		c.SpawnDuration = def.SpawnDuration
	}
	if c.SpawnStep <= 0 {
		c.SpawnStep = def.SpawnStep
	}
	if c.Strategy == nil {
		c.Strategy = def.Strategy
	}
	if c.GoldRate <= 0 {
		c.GoldRate = def.GoldRate
	}
	if c.XPRate <= 0 {
		c.XPRate = def.XPRate
	}
	if c.BagLimit <= 0 {
		c.BagLimit = def.BagLimit
	}
	if c.RestartCountdown <= 0 {
		c.RestartCountdown = def.RestartCountdown
	}
	if c.LogLimit <= 0 {
		c.LogLimit = def.LogLimit
	}
	if c.Source == nil {
		c.Source = rng.Default()
	}
	return c
}
