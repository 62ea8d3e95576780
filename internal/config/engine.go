package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// PathEnv overrides the config file path.
const PathEnv = "IDLECHAOS_CONFIG"

// DefaultPath is the config file read when PathEnv is not set.
const DefaultPath = "config/idlechaos.yaml"

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Rates holds gameplay multipliers.
type Rates struct {
	Gold float64 `yaml:"gold"`
	XP   float64 `yaml:"xp"`
}

// DefaultRates returns x1 multipliers.
func DefaultRates() Rates {
	return Rates{Gold: 1.0, XP: 1.0}
}

// Combat holds battle timing and the hit/damage model.
type Combat struct {
	TickInterval    time.Duration `yaml:"tick_interval"`     // default: 50ms
	ProgressPerTick float64       `yaml:"progress_per_tick"` // attack progress per tick at speed 1.0
	SpawnDuration   time.Duration `yaml:"spawn_duration"`    // enemy search countdown
	SpawnStep       time.Duration `yaml:"spawn_step"`
	Model           string        `yaml:"model"` // exponential | ratio
	LogLimit        int           `yaml:"log_limit"`
}

// Loot holds loot bag settings.
type Loot struct {
	BagLimit int `yaml:"bag_limit"`
}

// Dungeon holds dungeon settings.
type Dungeon struct {
	RestartCountdown time.Duration `yaml:"restart_countdown"`
	AutoRestart      bool          `yaml:"auto_restart"`
}

// Engine holds all configuration of the idle-chaos server.
type Engine struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string `yaml:"log_level"` // debug | info | warn | error

	// Storage
	Storage  string         `yaml:"storage"` // memory | postgres
	Database DatabaseConfig `yaml:"database"`

	Rates   Rates   `yaml:"rates"`
	Combat  Combat  `yaml:"combat"`
	Loot    Loot    `yaml:"loot"`
	Dungeon Dungeon `yaml:"dungeon"`

	// Seed fixes the random source of every session. 0 = random.
	Seed uint64 `yaml:"seed"`
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		BindAddress: "0.0.0.0",
		Port:        8080,
		LogLevel:    "info",
		Storage:     StorageMemory,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "idlechaos",
			Password: "idlechaos",
			DBName:   "idlechaos",
			SSLMode:  "disable",
		},
		Rates: DefaultRates(),
		Combat: Combat{
			TickInterval:    50 * time.Millisecond,
			ProgressPerTick: 2.0,
			SpawnDuration:   5 * time.Second,
			SpawnStep:       50 * time.Millisecond,
			Model:           "exponential",
			LogLimit:        200,
		},
		Loot: Loot{BagLimit: 100},
		Dungeon: Dungeon{
			RestartCountdown: 5 * time.Second,
			AutoRestart:      true,
		},
	}
}

// LoadEngine loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if p := os.Getenv(PasswordEnv); p != "" {
		cfg.Database.Password = p
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the config path from PathEnv, or DefaultPath.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Validate checks values that have no safe fallback.
func (e Engine) Validate() error {
	switch e.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage %q", e.Storage)
	}
	if e.Combat.TickInterval <= 0 {
		return fmt.Errorf("combat.tick_interval must be > 0, got %s", e.Combat.TickInterval)
	}
	if e.Rates.Gold < 0 || e.Rates.XP < 0 {
		return fmt.Errorf("rates must not be negative")
	}
	return nil
}

// SlogLevel parses LogLevel, defaulting to info.
func (e Engine) SlogLevel() slog.Level {
	switch strings.ToLower(e.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr returns the HTTP listen address.
func (e Engine) Addr() string {
	return fmt.Sprintf("%s:%d", e.BindAddress, e.Port)
}
