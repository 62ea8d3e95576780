// Package testutil содержит общие хелперы для тестов движка.
package testutil

import (
	"context"
	"testing"
	"time"
)

// Context создаёт context с timeout и автоматически отменяет его при завершении теста.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// WaitFor ждёт пока check вернёт true (polling каждые 5ms).
// Проваливает тест по истечении timeout.
func WaitFor(t testing.TB, check func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for !check() {
		select {
		case <-ctx.Done():
			t.Fatalf("condition not met within %s", timeout)
		case <-ticker.C:
		}
	}
}
