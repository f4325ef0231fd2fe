package storage

import (
	"context"
	"time"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// ReaperOption configures the reaper.
type ReaperOption func(*Reaper)

// WithSweepInterval sets how often the reaper checks sessions.
func WithSweepInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithIdleTimeout sets how long a session may go untouched before it is
// closed.
func WithIdleTimeout(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.idle = d
		}
	}
}

// Reaper periodically closes shopping sessions nobody has touched for a
// while, releasing their carts.
type Reaper struct {
	store    domain.SessionStore
	log      *logger.Logger
	interval time.Duration
	idle     time.Duration
	now      func() time.Time
}

// NewReaper creates a reaper over store.
func NewReaper(store domain.SessionStore, log *logger.Logger, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		store:    store,
		log:      log,
		interval: time.Minute,
		idle:     30 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the sweep loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("session reaper started (interval=%s, idle=%s)", r.interval, r.idle)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("session reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns how many sessions were closed.
func (r *Reaper) Sweep(ctx context.Context) int {
	sessions, err := r.store.ListActive(ctx)
	if err != nil {
		r.log.Error("reaper: listing active sessions: %v", err)
		return 0
	}

	now := r.now()
	closed := 0
	for _, sess := range sessions {
		idleFor := now.Sub(sess.UpdatedAt)
		if idleFor < r.idle {
			continue
		}
		sess.Status = domain.SessionClosed
		sess.UpdatedAt = now
		if err := r.store.Save(ctx, sess); err != nil {
			r.log.Error("reaper: closing session %s: %v", sess.ID, err)
			continue
		}
		closed++
		r.log.Debug("reaper: closed session %s after %s idle (items=%d)", sess.ID, idleFor.Round(time.Second), len(sess.Cart))
	}
	return closed
}
