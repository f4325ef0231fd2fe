package domain

import "context"

// CatalogLoader returns the full recipe and product tables. The core never
// performs I/O itself; implementations can be SQL, files or fixtures.
type CatalogLoader interface {
	LoadRecipes(ctx context.Context) ([]RecipeRecord, error)
	LoadProducts(ctx context.Context) ([]Product, error)
}

// SimilarityProvider returns precomputed user-recipe similarity rows. The
// table is produced by an external batch job and consumed unchanged.
type SimilarityProvider interface {
	Similarities(ctx context.Context, userID int) ([]SimilarityRow, error)
}

// ProductSearcher finds products for a keyword, best match first.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// RecipeOracle is a free-text similarity search over recipes. The ranking
// is opaque; callers only rely on the order.
type RecipeOracle interface {
	SimilarRecipes(ctx context.Context, query string, topN int) ([]RecipeHit, error)
}

// EventSink records user actions. Callers do not depend on the result.
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// SessionStore persists shopping sessions. Implementations can be in-memory,
// Redis, or any other backend.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
}

// IntentParser converts raw shell input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
