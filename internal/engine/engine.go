// Package engine runs shopping sessions. It wires the pure core packages
// (cart, inventory, recommend, pricing) to the catalog, the session store
// and the event log. It depends only on interfaces and is fully testable
// with in-memory implementations.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

const (
	defaultLimit              = 3
	defaultMinRemainingWeight = 100
)

// Catalog is the read side of the reference tables the engine needs.
// catalog.Cache satisfies it.
type Catalog interface {
	Recipes(ctx context.Context) ([]domain.RecipeRecord, error)
	Recipe(ctx context.Context, id string) (*domain.RecipeRecord, error)
	RecipesByID(ctx context.Context, ids []string) ([]domain.RecipeRecord, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Option configures the engine.
type Option func(*Engine)

// WithOracle sets the free-text recipe search used by SearchRecipes.
func WithOracle(o domain.RecipeOracle) Option {
	return func(e *Engine) {
		e.oracle = o
	}
}

// WithEvents sets where user actions are recorded.
func WithEvents(sink domain.EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.events = sink
		}
	}
}

// WithLimit caps how many recommendations are returned. Zero means no cap.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.limit = n
		}
	}
}

// WithMinRemainingWeight drops leftovers lighter than w before remain-mode
// ranking.
func WithMinRemainingWeight(w float64) Option {
	return func(e *Engine) {
		if w >= 0 {
			e.minRemaining = w
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages shopping sessions. Operations on one session are
// serialized; different sessions proceed in parallel.
type Engine struct {
	catalog  Catalog
	sims     domain.SimilarityProvider
	products domain.ProductSearcher
	oracle   domain.RecipeOracle
	store    domain.SessionStore
	events   domain.EventSink
	log      *logger.Logger

	limit        int
	minRemaining float64
	now          func() time.Time

	locks sync.Map // session ID -> *sync.Mutex
}

// New creates an engine. When products also implements domain.RecipeOracle
// it doubles as the recipe search unless WithOracle says otherwise.
func New(
	cat Catalog,
	sims domain.SimilarityProvider,
	products domain.ProductSearcher,
	store domain.SessionStore,
	log *logger.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		catalog:      cat,
		sims:         sims,
		products:     products,
		store:        store,
		events:       discard{},
		log:          log,
		limit:        defaultLimit,
		minRemaining: defaultMinRemainingWeight,
		now:          time.Now,
	}
	if o, ok := products.(domain.RecipeOracle); ok {
		e.oracle = o
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type discard struct{}

func (discard) Record(context.Context, domain.Event) error { return nil }

// StartSession opens an empty cart for a shopper.
func (e *Engine) StartSession(ctx context.Context, userID int, osType string) (*domain.Session, error) {
	now := e.now()
	session := &domain.Session{
		ID:            uuid.NewString(),
		UserID:        userID,
		OSType:        osType,
		RecipeSources: make(map[string][]string),
		Status:        domain.SessionActive,
		StartedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s for user %d (%s)", session.ID, userID, osType)
	return session, nil
}

// Session returns the stored session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return s, nil
}

// EndSession closes an active session without purchasing.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	_, err := e.update(ctx, sessionID, func(s *domain.Session, _ *cart.Ledger) error {
		s.Status = domain.SessionClosed
		return nil
	})
	if err != nil {
		return err
	}
	e.locks.Delete(sessionID)
	e.log.Info("closed session %s", sessionID)
	return nil
}

// lock serializes work on one session and returns the unlock func.
func (e *Engine) lock(sessionID string) func() {
	v, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// update loads an active session, applies fn to it and its rebuilt cart
// ledger, and saves the result. Nothing is saved when fn fails.
func (e *Engine) update(ctx context.Context, sessionID string, fn func(*domain.Session, *cart.Ledger) error) (*domain.Session, error) {
	unlock := e.lock(sessionID)
	defer unlock()

	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s.Status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}
	if s.RecipeSources == nil {
		s.RecipeSources = make(map[string][]string)
	}

	l := cart.FromEntries(s.Cart)
	if err := fn(s, l); err != nil {
		return nil, err
	}
	s.Cart = l.Entries()
	s.UpdatedAt = e.now()

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return s, nil
}

// emit records an event. Failures are logged and otherwise ignored.
func (e *Engine) emit(ctx context.Context, s *domain.Session, typ domain.EventType, param map[string]any) {
	ev := domain.NewEvent(s.UserID, s.OSType, typ, param)
	ev.Timestamp = e.now()
	ev.PartitionDate = ev.Timestamp.Format("2006-01-02")
	if err := e.events.Record(ctx, ev); err != nil {
		e.log.Warn("recording %s for session %s: %v", typ, s.ID, err)
	}
}
