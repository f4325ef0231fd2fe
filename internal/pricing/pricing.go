// Package pricing estimates what a recipe costs per serving given what is
// already in the cart.
package pricing

import (
	"math"
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
)

// ServingPrice prices ings against the cart and divides by portions.
// Each ingredient with a priced quantity is charged at the unit price of
// the first cart entry that carries it. Unmatched ingredients cost nothing.
// A zero portion count yields 0.
func ServingPrice(entries []domain.CartEntry, ings []domain.ParsedIngredient, portions int) int {
	if portions == 0 {
		return 0
	}

	var total float64
	for _, ing := range ings {
		// Unnamed quantities would be charged against the first entry.
		if ing.Name == "" {
			continue
		}
		qty, ok := ingredient.PricedMagnitude(ing.Quantity)
		if !ok {
			continue
		}
		e := match(entries, ing.Name)
		if e == nil || e.UnitWeight <= 0 {
			continue
		}
		total += float64(e.UnitPrice) / e.UnitWeight * qty
	}
	return int(math.RoundToEven(total / float64(portions)))
}

// match returns the first entry whose category has name as an element, or
// whose division or display name contains it.
func match(entries []domain.CartEntry, name string) *domain.CartEntry {
	for i := range entries {
		e := &entries[i]
		if hasElement(e.Category, name) ||
			strings.Contains(e.Division, name) ||
			strings.Contains(e.DisplayName, name) {
			return e
		}
	}
	return nil
}

func hasElement(category, name string) bool {
	for _, part := range strings.Split(category, "/") {
		if part == name {
			return true
		}
	}
	return false
}

// RecipeCartPrice sums the serving price of every recipe in recipes.
func RecipeCartPrice(entries []domain.CartEntry, recipes []domain.RecipeRecord) int {
	total := 0
	for i := range recipes {
		total += ServingPrice(entries, ingredient.Of(&recipes[i]), recipes[i].PortionCount)
	}
	return total
}
