// Package inventory computes what is left in a cart once a set of recipes
// has been cooked from it.
package inventory

import (
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
)

// Remaining is the leftover view of a cart, in cart order.
type Remaining struct {
	entries []domain.RemainingEntry
}

// usage is the summed magnitude per ingredient name, in first-seen order.
type usage struct {
	names  []string
	amount map[string]float64
}

func collectUsage(recipes []domain.RecipeRecord) usage {
	u := usage{amount: make(map[string]float64)}
	for i := range recipes {
		for _, ing := range ingredient.Of(&recipes[i]) {
			if _, seen := u.amount[ing.Name]; !seen {
				u.names = append(u.names, ing.Name)
			}
			// Units are ignored: 200g and 200ml of one name add up.
			u.amount[ing.Name] += ingredient.Magnitude(ing.Quantity)
		}
	}
	return u
}

// Compute subtracts the ingredients of used from the cart entries.
//
// An entry is charged by the first ingredient name (in first-seen order)
// that is a substring of its display name or equals its category or
// division. Charged entries keep only a positive leftover; fully consumed
// ones are dropped. Entries no ingredient touches are carried through as
// they are, with their unit weight. The input is never modified.
func Compute(entries []domain.CartEntry, used []domain.RecipeRecord) *Remaining {
	u := collectUsage(used)
	out := make([]domain.RemainingEntry, 0, len(entries))

	for _, e := range entries {
		name, matched := u.match(e)
		if !matched {
			out = append(out, domain.RemainingEntry{CartEntry: e, Weight: e.UnitWeight})
			continue
		}
		if left := e.OnHand() - u.amount[name]; left > 0 {
			out = append(out, domain.RemainingEntry{CartEntry: e, Weight: left})
		}
	}
	return &Remaining{entries: out}
}

func (u usage) match(e domain.CartEntry) (string, bool) {
	for _, name := range u.names {
		if strings.Contains(e.DisplayName, name) || name == e.Category || name == e.Division {
			return name, true
		}
	}
	return "", false
}

// Entries returns the leftover entries in cart order.
func (r *Remaining) Entries() []domain.RemainingEntry {
	out := make([]domain.RemainingEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Map returns the leftover entries keyed by cart key.
func (r *Remaining) Map() map[string]domain.RemainingEntry {
	out := make(map[string]domain.RemainingEntry, len(r.entries))
	for _, e := range r.entries {
		out[e.Key] = e
	}
	return out
}

// Get returns the leftover entry for key.
func (r *Remaining) Get(key string) (domain.RemainingEntry, bool) {
	for _, e := range r.entries {
		if e.Key == key {
			return e, true
		}
	}
	return domain.RemainingEntry{}, false
}

// Len returns the number of leftover entries.
func (r *Remaining) Len() int { return len(r.entries) }

// AtLeast keeps only entries with at least min weight left.
func (r *Remaining) AtLeast(min float64) *Remaining {
	out := make([]domain.RemainingEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Weight >= min {
			out = append(out, e)
		}
	}
	return &Remaining{entries: out}
}

// View projects the leftovers for the recommender.
func (r *Remaining) View() domain.CartView {
	view := make(domain.CartView, 0, len(r.entries))
	for _, e := range r.entries {
		view = append(view, domain.ViewEntry{
			Key:         e.Key,
			DisplayName: e.DisplayName,
			Category:    e.Category,
			Division:    e.Division,
			Weight:      e.Weight,
		})
	}
	return view
}
