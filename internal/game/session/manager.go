package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alper6161/idle-chaos/internal/store"
)

const stopTimeout = 10 * time.Second

// Manager owns the running sessions, one per save slot.
// Thread-safe for concurrent access.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	notifier store.Notifier
	cfg      Config
	base     context.Context
	sessions map[string]*Session // slotID → session
}

// NewManager creates a session manager.
func NewManager(st store.Store, notifier store.Notifier, cfg Config) *Manager {
	return &Manager{
		store:    st,
		notifier: notifier,
		cfg:      cfg,
		base:     context.Background(),
		sessions: make(map[string]*Session, 8),
	}
}

// Get returns the running session of slotID, starting it on first use.
// Returns store.ErrSlotNotFound for unknown slots.
func (m *Manager) Get(ctx context.Context, slotID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[slotID]; ok {
		return s, nil
	}
	if _, err := m.store.GetSlot(ctx, slotID); err != nil {
		return nil, fmt.Errorf("loading slot %s: %w", slotID, err)
	}

	s := New(ctx, slotID, m.store, m.notifier, m.cfg)
	s.Start(m.base)
	m.sessions[slotID] = s
	slog.Info("session created", "slot", slotID, "sessions", len(m.sessions))
	return s, nil
}

// Len returns the number of running sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run blocks until ctx is cancelled and then stops every session.
// Sessions created afterwards are parented to ctx.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	m.base = ctx
	m.mu.Unlock()

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	return m.StopAll(stopCtx)
}

// StopAll stops and forgets every session.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session, 8)
	m.mu.Unlock()

	var firstErr error
	for id, s := range sessions {
		if err := s.Stop(ctx); err != nil {
			slog.Error("stopping session failed", "slot", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
