package domain

import "time"

// Session is one shopper's working state: cart, chosen recipes and the
// products that were pulled in on behalf of each recipe.
type Session struct {
	ID            string              `json:"id"`
	UserID        int                 `json:"user_id"`
	OSType        string              `json:"os_type"`
	Cart          []CartEntry         `json:"cart"`
	RecipeCart    []string            `json:"recipe_cart"`
	RecipeSources map[string][]string `json:"recipe_sources"`
	Opened        bool                `json:"opened"` // landing impression already logged
	Status        SessionStatus       `json:"status"`
	StartedAt     time.Time           `json:"started_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// HasRecipe reports whether the recipe is in the session's recipe cart.
func (s *Session) HasRecipe(id string) bool {
	for _, r := range s.RecipeCart {
		if r == id {
			return true
		}
	}
	return false
}

// SessionStatus tracks the lifecycle of a shopping session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionPurchased
	SessionClosed
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionPurchased:
		return "purchased"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Clone returns a deep copy so stores never hand out shared cart state.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart = append([]CartEntry(nil), s.Cart...)
	c.RecipeCart = append([]string(nil), s.RecipeCart...)
	if s.RecipeSources != nil {
		c.RecipeSources = make(map[string][]string, len(s.RecipeSources))
		for k, v := range s.RecipeSources {
			c.RecipeSources[k] = append([]string(nil), v...)
		}
	}
	return &c
}
