package engine

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/inventory"
	"github.com/hammamikhairi/ottomart/internal/recommend"
)

// Recommend ranks recipes for the session's shopper. Recipes already in
// the recipe cart are left out. Remain mode looks at the leftovers after
// the recipe cart is cooked, ignoring scraps under the minimum weight.
func (e *Engine) Recommend(ctx context.Context, sessionID string, mode domain.Mode) ([]domain.RecommendationResult, error) {
	s, err := e.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return e.recommend(ctx, s, mode)
}

func (e *Engine) recommend(ctx context.Context, s *domain.Session, mode domain.Mode) ([]domain.RecommendationResult, error) {
	recipes, err := e.catalog.Recipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting recipes: %w", err)
	}
	sims, err := e.sims.Similarities(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("getting similarities: %w", err)
	}

	var view domain.CartView
	switch mode {
	case domain.ModeBasic:
		view = cart.FromEntries(s.Cart).View()
	case domain.ModeRemain:
		used, err := e.catalog.RecipesByID(ctx, s.RecipeCart)
		if err != nil {
			return nil, fmt.Errorf("getting recipe cart: %w", err)
		}
		view = inventory.Compute(s.Cart, used).AtLeast(e.minRemaining).View()
	}

	results, err := recommend.Recommend(view, recipes, sims, s.UserID, mode, s.RecipeCart)
	if err != nil {
		return nil, err
	}
	results = recommend.Top(results, e.limit)

	e.log.Debug("session %s: %d %s recommendations", s.ID, len(results), mode)
	return results, nil
}

// Home returns the landing-page picks: top preference recipes. The first
// call for a session records which recipes were shown and in what order.
func (e *Engine) Home(ctx context.Context, sessionID string) ([]domain.RecommendationResult, error) {
	var (
		results   []domain.RecommendationResult
		firstView bool
	)
	s, err := e.update(ctx, sessionID, func(s *domain.Session, _ *cart.Ledger) error {
		var err error
		results, err = e.recommend(ctx, s, domain.ModePreference)
		if err != nil {
			return err
		}
		if !s.Opened {
			s.Opened = true
			firstView = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if firstView {
		names := make([]string, 0, len(results))
		order := make([]int, 0, len(results))
		for i, r := range results {
			names = append(names, r.Name)
			order = append(order, i+1)
		}
		e.emit(ctx, s, domain.EventWebsiteOpen, map[string]any{
			"names": names,
			"order": order,
		})
	}
	return results, nil
}
