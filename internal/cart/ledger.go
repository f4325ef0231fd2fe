// Package cart implements the session-scoped cart ledger.
package cart

import (
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
)

// Key derives the ledger key for a listing. Listings that share a name but
// not an image stay distinct; repeats of one listing share a key.
func Key(name, image string) string {
	return strings.ReplaceAll(name, " ", "_") + "_" + image
}

// Totals summarizes a ledger.
type Totals struct {
	Items int // sum of quantities
	Price int // sum of quantity * unit price
}

// Ledger maps cart keys to entries and remembers insertion order, which is
// the order every "first matching entry" search walks. A Ledger belongs to
// one session and is not safe for concurrent use.
type Ledger struct {
	order   []string
	entries map[string]*domain.CartEntry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*domain.CartEntry)}
}

// FromEntries rebuilds a ledger from persisted entries, keeping their order.
// Entries without a key get one derived from name and image.
func FromEntries(entries []domain.CartEntry) *Ledger {
	l := New()
	for _, e := range entries {
		if e.Key == "" {
			e.Key = Key(e.DisplayName, e.Image)
		}
		if _, dup := l.entries[e.Key]; dup {
			l.entries[e.Key].Quantity += e.Quantity
			continue
		}
		entry := e
		l.order = append(l.order, e.Key)
		l.entries[e.Key] = &entry
	}
	return l
}

// AddOrIncrement adds one unit of p. An existing entry only has its quantity
// bumped; price, weight and tags stay as they were on first insert.
func (l *Ledger) AddOrIncrement(p domain.Product) string {
	key := Key(p.Name, p.Image)
	if e, ok := l.entries[key]; ok {
		e.Quantity++
		return key
	}
	l.order = append(l.order, key)
	l.entries[key] = &domain.CartEntry{
		Key:         key,
		Quantity:    1,
		Domain:      p.Domain,
		Division:    p.Division,
		Category:    p.Category,
		DisplayName: p.Name,
		Brand:       p.Brand,
		UnitWeight:  p.Weight,
		Unit:        p.Unit,
		UnitPrice:   p.Price,
		Image:       p.Image,
	}
	return key
}

// Remove deletes the entry for key. Missing keys are ignored.
func (l *Ledger) Remove(key string) {
	if _, ok := l.entries[key]; !ok {
		return
	}
	delete(l.entries, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// SetQuantity applies a user quantity change. A quantity of zero or less
// removes the entry. It reports whether the key existed.
func (l *Ledger) SetQuantity(key string, qty int) bool {
	e, ok := l.entries[key]
	if !ok {
		return false
	}
	if qty <= 0 {
		l.Remove(key)
		return true
	}
	e.Quantity = qty
	return true
}

// Get returns a copy of the entry for key.
func (l *Ledger) Get(key string) (domain.CartEntry, bool) {
	e, ok := l.entries[key]
	if !ok {
		return domain.CartEntry{}, false
	}
	return *e, true
}

// Has reports whether key is in the ledger.
func (l *Ledger) Has(key string) bool {
	_, ok := l.entries[key]
	return ok
}

// Len returns the number of distinct entries.
func (l *Ledger) Len() int { return len(l.order) }

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.order = nil
	l.entries = make(map[string]*domain.CartEntry)
}

// Entries returns copies of all entries in insertion order.
func (l *Ledger) Entries() []domain.CartEntry {
	out := make([]domain.CartEntry, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.entries[k])
	}
	return out
}

// Totals sums quantities and line prices across the ledger.
func (l *Ledger) Totals() Totals {
	var t Totals
	for _, e := range l.entries {
		t.Items += e.Quantity
		t.Price += e.Quantity * e.UnitPrice
	}
	return t
}

// View projects the ledger for the recommender. Weight is the per-unit
// weight of each listing.
func (l *Ledger) View() domain.CartView {
	view := make(domain.CartView, 0, len(l.order))
	for _, k := range l.order {
		e := l.entries[k]
		view = append(view, domain.ViewEntry{
			Key:         e.Key,
			DisplayName: e.DisplayName,
			Category:    e.Category,
			Division:    e.Division,
			Weight:      e.UnitWeight,
		})
	}
	return view
}
