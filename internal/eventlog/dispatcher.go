// Package eventlog records user actions without holding up the caller.
// A Dispatcher queues events and a background loop hands them to one or
// more sinks (Postgres, a Redis stream, the process log).
package eventlog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

var _ domain.EventSink = (*Dispatcher)(nil)

// Option configures the dispatcher.
type Option func(*Dispatcher)

// WithBufferSize sets how many events may wait for delivery. Events
// recorded while the buffer is full are dropped.
func WithBufferSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.bufferSize = n
		}
	}
}

// WithWriteTimeout bounds each sink call.
func WithWriteTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.writeTimeout = t
		}
	}
}

// Dispatcher fans events out to sinks on a background goroutine.
type Dispatcher struct {
	sinks        []domain.EventSink
	log          *logger.Logger
	bufferSize   int
	writeTimeout time.Duration

	events    chan domain.Event
	delivered atomic.Int64
	dropped   atomic.Int64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewDispatcher creates a dispatcher delivering to sinks in order.
func NewDispatcher(log *logger.Logger, sinks []domain.EventSink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sinks:        sinks,
		log:          log,
		bufferSize:   256,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.events = make(chan domain.Event, d.bufferSize)
	return d
}

// Start begins the delivery loop. Non-blocking.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.log.Warn("event dispatcher already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.loop(childCtx, d.done)

	d.log.Info("event dispatcher started (sinks=%d, buffer=%d)", len(d.sinks), d.bufferSize)
}

// Stop shuts the loop down after delivering what is already queued.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.running = false
	done := d.done
	d.mu.Unlock()

	<-done
	d.log.Info("event dispatcher stopped (delivered=%d, dropped=%d)", d.delivered.Load(), d.dropped.Load())
}

// Record implements domain.EventSink. It never blocks and never fails;
// an event that does not fit in the buffer is dropped and counted.
func (d *Dispatcher) Record(_ context.Context, ev domain.Event) error {
	select {
	case d.events <- ev:
	default:
		d.dropped.Add(1)
		d.log.Warn("event buffer full, dropping %s for user %d", ev.Type, ev.UserID)
	}
	return nil
}

// Stats returns how many events were delivered and dropped so far.
func (d *Dispatcher) Stats() (delivered, dropped int64) {
	return d.delivered.Load(), d.dropped.Load()
}

func (d *Dispatcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case ev := <-d.events:
			d.deliver(ev)
		}
	}
}

// drain delivers whatever is still buffered.
func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		default:
			return
		}
	}
}

// deliver writes ev to every sink. Sink calls get their own context so
// that events queued before shutdown still go out.
func (d *Dispatcher) deliver(ev domain.Event) {
	ok := true
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
		err := sink.Record(ctx, ev)
		cancel()
		if err != nil {
			ok = false
			d.log.Error("event dispatcher: recording %s: %v", ev.Type, err)
		}
	}
	if ok {
		d.delivered.Add(1)
	}
}
