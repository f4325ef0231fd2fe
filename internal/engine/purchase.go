package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
)

// Receipt describes a completed purchase.
type Receipt struct {
	OrderID     string
	SessionID   string
	UserID      int
	Items       []domain.CartEntry
	Recipes     []domain.RecipeRecord
	Totals      cart.Totals
	PurchasedAt time.Time
}

// OrderID builds an order number from the purchase time and the shopper.
func OrderID(t time.Time, userID int) string {
	return t.Format("060102150405") + strconv.Itoa(userID)
}

// Purchase checks out the cart. The session is closed for edits afterwards
// and a cartPurchase event is recorded.
func (e *Engine) Purchase(ctx context.Context, sessionID string) (*Receipt, error) {
	var receipt *Receipt
	s, err := e.update(ctx, sessionID, func(s *domain.Session, l *cart.Ledger) error {
		if l.Len() == 0 {
			return domain.ErrEmptyCart
		}
		recipes, err := e.catalog.RecipesByID(ctx, s.RecipeCart)
		if err != nil {
			return fmt.Errorf("getting recipe cart: %w", err)
		}

		now := e.now()
		receipt = &Receipt{
			OrderID:     OrderID(now, s.UserID),
			SessionID:   s.ID,
			UserID:      s.UserID,
			Items:       l.Entries(),
			Recipes:     recipes,
			Totals:      l.Totals(),
			PurchasedAt: now,
		}
		s.Status = domain.SessionPurchased
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, s, domain.EventCartPurchase, purchaseParams(receipt))
	e.locks.Delete(sessionID)
	e.log.Info("session %s: order %s placed, %d items, %d won", sessionID, receipt.OrderID, receipt.Totals.Items, receipt.Totals.Price)
	return receipt, nil
}

func purchaseParams(r *Receipt) map[string]any {
	recipes := make([]map[string]any, 0, len(r.Recipes))
	for _, rc := range r.Recipes {
		recipes = append(recipes, map[string]any{"id": rc.ID, "name": rc.Name})
	}
	items := make([]map[string]any, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, map[string]any{
			"display_name": it.DisplayName,
			"price":        it.UnitPrice,
			"weight":       it.UnitWeight,
			"unit":         it.Unit,
			"qty":          it.Quantity,
		})
	}
	return map[string]any{
		"recipes":  recipes,
		"items":    items,
		"order_id": r.OrderID,
		"total":    r.Totals.Price,
	}
}
