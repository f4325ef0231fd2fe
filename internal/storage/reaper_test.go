package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

func TestReaperSweep(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()
	now := time.Now()

	fresh := newSession("fresh", domain.SessionActive)
	fresh.UpdatedAt = now.Add(-time.Minute)
	stale := newSession("stale", domain.SessionActive)
	stale.UpdatedAt = now.Add(-2 * time.Hour)
	for _, s := range []*domain.Session{fresh, stale} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	r := NewReaper(store, log, WithIdleTimeout(time.Hour))
	r.now = func() time.Time { return now }

	if n := r.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 closed session, got %d", n)
	}
	got, _ := store.Load(ctx, "stale")
	if got.Status != domain.SessionClosed {
		t.Fatalf("stale session status = %s", got.Status)
	}
	active, _ := store.ListActive(ctx)
	if len(active) != 1 || active[0].ID != "fresh" {
		t.Fatalf("unexpected active sessions %+v", active)
	}
}

func TestReaperRunStopsOnCancel(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	s := newSession("old", domain.SessionActive)
	s.UpdatedAt = time.Now().Add(-time.Hour)
	store.Save(context.Background(), s)

	r := NewReaper(store, log, WithSweepInterval(10*time.Millisecond), WithIdleTimeout(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		got, _ := store.Load(context.Background(), "old")
		if got.Status == domain.SessionClosed {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reaper never closed the idle session")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
