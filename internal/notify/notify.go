// Package notify is the dashboard's toast surface. Services report
// user-facing outcomes through Notifier; the Feed implementation logs each
// notification and keeps the most recent ones for the UI to poll.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/pkordes/roadscan/internal/domain"
)

// Notifier accepts a transient message for the user.
type Notifier interface {
	Notify(ctx context.Context, title, message string, kind domain.NotificationKind)
}

// DefaultCapacity is how many notifications a Feed retains.
const DefaultCapacity = 50

// Feed is a bounded, concurrency-safe Notifier. Once full, the oldest
// notification is dropped for each new one.
type Feed struct {
	mu       sync.Mutex
	items    []domain.Notification
	capacity int
	clock    clockwork.Clock
	log      *slog.Logger
}

// NewFeed returns a Feed holding up to capacity notifications
// (DefaultCapacity when capacity <= 0).
func NewFeed(capacity int, clock clockwork.Clock, log *slog.Logger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, clock: clock, log: log}
}

// Notify records and logs a notification.
func (f *Feed) Notify(ctx context.Context, title, message string, kind domain.NotificationKind) {
	n := domain.Notification{Title: title, Message: message, Kind: kind, At: f.clock.Now()}

	f.mu.Lock()
	if len(f.items) == f.capacity {
		f.items = slices.Delete(f.items, 0, 1)
	}
	f.items = append(f.items, n)
	f.mu.Unlock()

	level := slog.LevelInfo
	if kind == domain.KindDestructive {
		level = slog.LevelWarn
	}
	f.log.Log(ctx, level, "notification", "title", title, "message", message, "kind", string(kind))
}

// Recent returns up to limit notifications, newest first. limit <= 0 returns
// everything retained.
func (f *Feed) Recent(limit int) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]domain.Notification, 0, limit)
	for i := len(f.items) - 1; i >= len(f.items)-limit; i-- {
		out = append(out, f.items[i])
	}
	return out
}
