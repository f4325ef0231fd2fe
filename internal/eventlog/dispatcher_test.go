package eventlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// recordingSink collects events for testing.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
	block  chan struct{}
}

func (s *recordingSink) Record(_ context.Context, ev domain.Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func event(n int) domain.Event {
	return domain.NewEvent(n, "web", domain.EventWebsiteOpen, map[string]any{"order": n})
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	a, b := &recordingSink{}, &recordingSink{}
	d := NewDispatcher(log, []domain.EventSink{a, b})
	d.Start(context.Background())

	for i := 1; i <= 5; i++ {
		if err := d.Record(context.Background(), event(i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	d.Stop()

	if a.count() != 5 || b.count() != 5 {
		t.Fatalf("expected 5 events per sink, got %d and %d", a.count(), b.count())
	}
	if a.events[0].UserID != 1 || a.events[4].UserID != 5 {
		t.Fatal("events delivered out of order")
	}
	if delivered, dropped := d.Stats(); delivered != 5 || dropped != 0 {
		t.Fatalf("stats = %d delivered, %d dropped", delivered, dropped)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(log, []domain.EventSink{sink}, WithBufferSize(2))

	// Not started: the buffer fills and the third event is dropped.
	for i := 1; i <= 3; i++ {
		d.Record(context.Background(), event(i))
	}
	if _, dropped := d.Stats(); dropped != 1 {
		t.Fatalf("expected 1 dropped event, got %d", dropped)
	}

	close(sink.block)
	d.Start(context.Background())
	d.Stop()
	if sink.count() != 2 {
		t.Fatalf("expected buffered events delivered on stop, got %d", sink.count())
	}
}

func TestDispatcherSinkErrorDoesNotStopLoop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	bad := &recordingSink{err: errors.New("unavailable")}
	good := &recordingSink{}
	d := NewDispatcher(log, []domain.EventSink{bad, good}, WithWriteTimeout(time.Second))
	d.Start(context.Background())

	d.Record(context.Background(), event(1))
	d.Record(context.Background(), event(2))
	d.Stop()

	if good.count() != 2 {
		t.Fatalf("healthy sink got %d events", good.count())
	}
	if delivered, _ := d.Stats(); delivered != 0 {
		t.Fatalf("events with a failed sink should not count as delivered, got %d", delivered)
	}
}

func TestDispatcherStartStopIdempotent(t *testing.T) {
	d := NewDispatcher(logger.New(logger.LevelOff, nil), nil)
	d.Stop()
	d.Start(context.Background())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}
