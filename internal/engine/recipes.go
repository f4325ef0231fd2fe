package engine

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
	"github.com/hammamikhairi/ottomart/internal/inventory"
	"github.com/hammamikhairi/ottomart/internal/pricing"
	"github.com/hammamikhairi/ottomart/internal/recommend"
)

// AddRecipe puts a recipe in the recipe cart.
func (e *Engine) AddRecipe(ctx context.Context, sessionID, recipeID string) (*domain.RecipeRecord, error) {
	r, err := e.catalog.Recipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	_, err = e.update(ctx, sessionID, func(s *domain.Session, _ *cart.Ledger) error {
		if s.HasRecipe(r.ID) {
			return fmt.Errorf("recipe %s: %w", r.ID, domain.ErrAlreadyExists)
		}
		s.RecipeCart = append(s.RecipeCart, r.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("session %s: recipe %q added", sessionID, r.Name)
	return r, nil
}

// RemoveRecipe takes a recipe out of the recipe cart along with the
// products that AddMissingIngredients pulled in for it. It returns the
// display names of the removed products.
func (e *Engine) RemoveRecipe(ctx context.Context, sessionID, recipeID string) ([]string, error) {
	var removed []string
	_, err := e.update(ctx, sessionID, func(s *domain.Session, l *cart.Ledger) error {
		idx := -1
		for i, id := range s.RecipeCart {
			if id == recipeID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("recipe %s in recipe cart: %w", recipeID, domain.ErrNotFound)
		}
		s.RecipeCart = append(s.RecipeCart[:idx], s.RecipeCart[idx+1:]...)

		r, err := e.catalog.Recipe(ctx, recipeID)
		if err != nil {
			// Retired from the catalog; nothing to match sources against.
			return nil
		}
		names := s.RecipeSources[r.Name]
		delete(s.RecipeSources, r.Name)
		if len(names) == 0 {
			return nil
		}

		drop := make(map[string]bool, len(names))
		for _, n := range names {
			drop[n] = true
		}
		for _, entry := range l.Entries() {
			if drop[entry.DisplayName] {
				l.Remove(entry.Key)
				removed = append(removed, entry.DisplayName)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("session %s: recipe %s removed with %d products", sessionID, recipeID, len(removed))
	return removed, nil
}

// Remaining returns what is left of the cart after cooking every recipe
// in the recipe cart.
func (e *Engine) Remaining(ctx context.Context, sessionID string) (*inventory.Remaining, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	recipes, err := e.catalog.RecipesByID(ctx, s.RecipeCart)
	if err != nil {
		return nil, fmt.Errorf("getting recipe cart: %w", err)
	}
	return inventory.Compute(s.Cart, recipes), nil
}

// ServingPrice estimates the per-serving cost of a recipe from the cart.
func (e *Engine) ServingPrice(ctx context.Context, sessionID, recipeID string) (int, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	r, err := e.catalog.Recipe(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("getting recipe: %w", err)
	}
	return pricing.ServingPrice(s.Cart, ingredient.Of(r), r.PortionCount), nil
}

// RecipeCartPrice sums the serving price of every chosen recipe.
func (e *Engine) RecipeCartPrice(ctx context.Context, sessionID string) (int, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	recipes, err := e.catalog.RecipesByID(ctx, s.RecipeCart)
	if err != nil {
		return 0, fmt.Errorf("getting recipe cart: %w", err)
	}
	return pricing.RecipeCartPrice(s.Cart, recipes), nil
}

// MissingIngredients lists the recipe ingredients the cart does not cover.
func (e *Engine) MissingIngredients(ctx context.Context, sessionID, recipeID string) ([]domain.ParsedIngredient, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r, err := e.catalog.Recipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	return recommend.Missing(cart.FromEntries(s.Cart).View(), ingredient.Of(r)), nil
}

// AddMissingIngredients adds the best product match for each ingredient
// the cart is missing. Products already in the cart are skipped. When
// anything was added the recipe joins the recipe cart and the added
// products are remembered so RemoveRecipe can take them back out.
func (e *Engine) AddMissingIngredients(ctx context.Context, sessionID, recipeID string) ([]string, error) {
	r, err := e.catalog.Recipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	var added []string
	_, err = e.update(ctx, sessionID, func(s *domain.Session, l *cart.Ledger) error {
		for _, ing := range recommend.Missing(l.View(), ingredient.Of(r)) {
			hits, err := e.products.SearchProducts(ctx, ing.Name)
			if err != nil {
				return fmt.Errorf("searching %q: %w", ing.Name, err)
			}
			if len(hits) == 0 {
				e.log.Debug("no product for ingredient %q", ing.Name)
				continue
			}
			p := hits[0]
			if l.Has(cart.Key(p.Name, p.Image)) {
				continue
			}
			l.AddOrIncrement(p)
			added = append(added, p.Name)
		}
		if len(added) == 0 {
			return nil
		}
		s.RecipeSources[r.Name] = append(s.RecipeSources[r.Name], added...)
		if !s.HasRecipe(r.ID) {
			s.RecipeCart = append(s.RecipeCart, r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("session %s: %d products added for %q", sessionID, len(added), r.Name)
	return added, nil
}
