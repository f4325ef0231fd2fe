package engine

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/pricing"
)

// CartSummary is everything the cart page shows.
type CartSummary struct {
	Entries     []domain.CartEntry
	Totals      cart.Totals
	Recipes     []domain.RecipeRecord // recipe cart, in the order chosen
	RecipePrice int                   // per-serving cost of the recipe cart
}

// AddProduct adds one unit of a catalog product to the cart.
func (e *Engine) AddProduct(ctx context.Context, sessionID, productID string) (domain.CartEntry, error) {
	p, err := e.catalog.Product(ctx, productID)
	if err != nil {
		return domain.CartEntry{}, fmt.Errorf("getting product: %w", err)
	}
	return e.AddToCart(ctx, sessionID, *p)
}

// AddToCart adds one unit of p. Repeats of a listing only bump its
// quantity.
func (e *Engine) AddToCart(ctx context.Context, sessionID string, p domain.Product) (domain.CartEntry, error) {
	var entry domain.CartEntry
	_, err := e.update(ctx, sessionID, func(_ *domain.Session, l *cart.Ledger) error {
		key := l.AddOrIncrement(p)
		entry, _ = l.Get(key)
		return nil
	})
	if err != nil {
		return domain.CartEntry{}, err
	}

	e.log.Debug("session %s: %s x%d", sessionID, entry.DisplayName, entry.Quantity)
	return entry, nil
}

// RemoveItem deletes a cart line.
func (e *Engine) RemoveItem(ctx context.Context, sessionID, key string) error {
	_, err := e.update(ctx, sessionID, func(_ *domain.Session, l *cart.Ledger) error {
		if !l.Has(key) {
			return fmt.Errorf("cart item %s: %w", key, domain.ErrNotFound)
		}
		l.Remove(key)
		return nil
	})
	return err
}

// SetQuantity changes a line's quantity. Zero or less removes the line.
func (e *Engine) SetQuantity(ctx context.Context, sessionID, key string, qty int) error {
	_, err := e.update(ctx, sessionID, func(_ *domain.Session, l *cart.Ledger) error {
		if !l.SetQuantity(key, qty) {
			return fmt.Errorf("cart item %s: %w", key, domain.ErrNotFound)
		}
		return nil
	})
	return err
}

// ClearCart empties the cart together with the recipe cart and the record
// of which products each recipe pulled in.
func (e *Engine) ClearCart(ctx context.Context, sessionID string) error {
	_, err := e.update(ctx, sessionID, func(s *domain.Session, l *cart.Ledger) error {
		l.Clear()
		s.RecipeCart = nil
		s.RecipeSources = make(map[string][]string)
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("session %s: cart cleared", sessionID)
	return nil
}

// Cart returns the cart lines, totals and chosen recipes.
func (e *Engine) Cart(ctx context.Context, sessionID string) (*CartSummary, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	recipes, err := e.catalog.RecipesByID(ctx, s.RecipeCart)
	if err != nil {
		return nil, fmt.Errorf("getting recipe cart: %w", err)
	}

	l := cart.FromEntries(s.Cart)
	return &CartSummary{
		Entries:     l.Entries(),
		Totals:      l.Totals(),
		Recipes:     recipes,
		RecipePrice: pricing.RecipeCartPrice(s.Cart, recipes),
	}, nil
}

// Totals returns the item count and price of the cart.
func (e *Engine) Totals(ctx context.Context, sessionID string) (cart.Totals, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return cart.Totals{}, err
	}
	return cart.FromEntries(s.Cart).Totals(), nil
}

// SearchProducts finds products for a keyword, best match first.
func (e *Engine) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return e.products.SearchProducts(ctx, query)
}

// SearchRecipes runs a free-text recipe search.
func (e *Engine) SearchRecipes(ctx context.Context, query string, topN int) ([]domain.RecipeHit, error) {
	if e.oracle == nil {
		return nil, fmt.Errorf("recipe search is not configured")
	}
	return e.oracle.SimilarRecipes(ctx, query, topN)
}
