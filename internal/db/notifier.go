package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alper6161/idle-chaos/internal/store"
)

// ChangeChannel is the LISTEN/NOTIFY channel carrying store changes.
const ChangeChannel = "idlechaos_changes"

const publishTimeout = 5 * time.Second

// Notifier распространяет изменения между процессами через LISTEN/NOTIFY.
// Publish отправляет pg_notify; Run слушает канал и раздаёт изменения
// локальным подписчикам, включая изменения этого же процесса.
type Notifier struct {
	pool *pgxpool.Pool
	bus  *store.Bus
}

var _ store.Notifier = (*Notifier)(nil)

// NewNotifier создаёт Notifier поверх pool.
func NewNotifier(pool *pgxpool.Pool) *Notifier {
	return &Notifier{pool: pool, bus: store.NewBus()}
}

// Subscribe implements store.Notifier.
func (n *Notifier) Subscribe(topic store.Topic) (<-chan store.Change, func()) {
	return n.bus.Subscribe(topic)
}

// Publish implements store.Notifier. Failures are logged: a lost notification
// only delays other sessions' reload.
func (n *Notifier) Publish(c store.Change) {
	payload, err := json.Marshal(c)
	if err != nil {
		slog.Error("encoding change", "topic", c.Topic, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if _, err := n.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, ChangeChannel, string(payload)); err != nil {
		slog.Error("publishing change", "topic", c.Topic, "slot", c.SlotID, "error", err)
	}
}

// Run слушает канал изменений до отмены ctx.
func (n *Notifier) Run(ctx context.Context) error {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listening on %s: %w", ChangeChannel, err)
	}
	slog.Info("listening for store changes", "channel", ChangeChannel)

	for {
		msg, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("waiting for notification: %w", err)
		}

		var c store.Change
		if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
			slog.Warn("dropping malformed change", "payload", msg.Payload, "error", err)
			continue
		}
		n.bus.Publish(c)
	}
}
