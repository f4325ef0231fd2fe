package domain

// CartEntry is one distinct purchasable line in a shopper's cart.
// On-hand weight is UnitWeight * Quantity.
type CartEntry struct {
	Key         string  `json:"key"`
	Quantity    int     `json:"qty"`
	Domain      string  `json:"domain"`
	Division    string  `json:"division"`
	Category    string  `json:"category"`
	DisplayName string  `json:"display_name"`
	Brand       string  `json:"brand"`
	UnitWeight  float64 `json:"weight"`
	Unit        string  `json:"unit"`
	UnitPrice   int     `json:"price"`
	Image       string  `json:"image"`
}

// OnHand returns the total weight held by the entry.
func (e CartEntry) OnHand() float64 {
	return e.UnitWeight * float64(e.Quantity)
}

// RemainingEntry is a cart entry after recipe usage has been subtracted.
// Weight is the leftover total, not a per-unit weight.
type RemainingEntry struct {
	CartEntry
	Weight float64 `json:"remaining"`
}

// ViewEntry is the slice of a cart line the recommender looks at.
type ViewEntry struct {
	Key         string
	DisplayName string
	Category    string
	Division    string
	Weight      float64
}

// CartView is a read-only projection of either the live cart or the
// remaining inventory.
type CartView []ViewEntry
