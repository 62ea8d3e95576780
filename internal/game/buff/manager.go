// Package buff tracks timed multipliers purchased in the shop and decides
// automatic potion use.
package buff

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/model"
)

// Manager tracks the active buffs of one save slot.
//
// Stacking rules (same kind):
//   - higher multiplier replaces the running buff
//   - same multiplier refreshes the expiry
//   - lower multiplier is rejected
//
// Thread-safe.
type Manager struct {
	mu     sync.RWMutex
	active []model.ActiveBuff
	now    func() time.Time
}

// NewManager creates an empty buff manager.
func NewManager() *Manager {
	return &Manager{
		active: make([]model.ActiveBuff, 0, 4),
		now:    time.Now,
	}
}

// SetClock overrides the time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Activate applies def. Returns false if a stronger buff of the same kind is running.
func (m *Manager) Activate(def model.BuffDef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.pruneLocked(now)

	ab := model.ActiveBuff{
		ID:         def.ID,
		Kind:       def.Kind,
		Multiplier: def.Multiplier,
		ExpiresAt:  now.Add(def.Duration),
	}

	for i, existing := range m.active {
		if existing.Kind != def.Kind {
			continue
		}
		switch {
		case def.Multiplier > existing.Multiplier:
			m.active[i] = ab
		case def.Multiplier == existing.Multiplier:
			m.active[i].ExpiresAt = ab.ExpiresAt
		default:
			return false
		}
		slog.Debug("buff refreshed", "buff", def.ID, "expiresAt", ab.ExpiresAt)
		return true
	}

	m.active = append(m.active, ab)
	slog.Debug("buff activated", "buff", def.ID, "expiresAt", ab.ExpiresAt)
	return true
}

// Accepts reports whether Activate(def) would succeed now.
func (m *Manager) Accepts(def model.BuffDef) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	for _, b := range m.active {
		if b.Kind == def.Kind && b.Active(now) && b.Multiplier > def.Multiplier {
			return false
		}
	}
	return true
}

func (m *Manager) pruneLocked(now time.Time) {
	m.active = slices.DeleteFunc(m.active, func(b model.ActiveBuff) bool {
		return !b.Active(now)
	})
}

// Multiplier returns the multiplier of kind, 1 when no buff of that kind is active.
func (m *Manager) Multiplier(kind model.BuffKind) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	for _, b := range m.active {
		if b.Kind == kind && b.Active(now) {
			return b.Multiplier
		}
	}
	return 1
}

// Has reports whether a buff of kind is running.
func (m *Manager) Has(kind model.BuffKind) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	for _, b := range m.active {
		if b.Kind == kind && b.Active(now) {
			return true
		}
	}
	return false
}

// Modifiers returns the combat multipliers of the running buffs.
func (m *Manager) Modifiers() combat.Modifiers {
	return combat.Modifiers{
		Damage: m.Multiplier(model.BuffDamage),
		Crit:   m.Multiplier(model.BuffCrit),
		Speed:  m.Multiplier(model.BuffSpeed),
	}
}

// GoldMultiplier returns the gold drop multiplier of the running buffs.
func (m *Manager) GoldMultiplier() float64 {
	return m.Multiplier(model.BuffGold)
}

// Active returns a copy of the running buffs and drops expired ones.
func (m *Manager) Active() []model.ActiveBuff {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(m.now())
	return slices.Clone(m.active)
}
