package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/engine"
)

var (
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525b"))
	tableHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0")).Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d8")).Padding(0, 1)

	won = message.NewPrinter(language.Korean)
)

// Won formats a price with digit grouping, e.g. 12,345원.
func Won(n int) string {
	return won.Sprintf("%d원", n)
}

func grams(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeadStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// RecipeTable lists catalog recipes.
func RecipeTable(recipes []domain.RecipeRecord) string {
	t := newTable("ID", "Recipe", "Category", "Serves", "Time")
	for _, r := range recipes {
		t.Row(r.ID, r.Name, r.Category, strconv.Itoa(r.PortionCount), r.CookTime)
	}
	return t.String()
}

// ProductTable lists products, as returned by a search.
func ProductTable(products []domain.Product) string {
	t := newTable("ID", "Product", "Brand", "Size", "Price")
	for _, p := range products {
		t.Row(p.ID, p.Name, p.DisplayBrand(), grams(p.Weight)+p.Unit, Won(p.Price))
	}
	return t.String()
}

// RecipeHitTable lists free-text recipe search results.
func RecipeHitTable(hits []domain.RecipeHit) string {
	t := newTable("ID", "Recipe", "Main", "Score")
	for _, h := range hits {
		t.Row(h.Recipe.ID, h.Recipe.Name, h.Recipe.MainIngredient, fmt.Sprintf("%.2f", h.Similarity))
	}
	return t.String()
}

// CartTable renders the cart lines with a totals footer row.
func CartTable(s *engine.CartSummary) string {
	t := newTable("Key", "Product", "Qty", "Unit", "Subtotal")
	for _, e := range s.Entries {
		t.Row(e.Key, e.DisplayName, strconv.Itoa(e.Quantity),
			grams(e.UnitWeight)+e.Unit, Won(e.UnitPrice*e.Quantity))
	}
	t.Row("", "total", strconv.Itoa(s.Totals.Items), "", Won(s.Totals.Price))

	out := t.String()
	if len(s.Recipes) > 0 {
		names := make([]string, 0, len(s.Recipes))
		for _, r := range s.Recipes {
			names = append(names, r.Name+" ("+r.ID+")")
		}
		out += "\n" + secondaryStyle.Render("  recipes: "+strings.Join(names, ", ")+
			"  ·  per serving "+Won(s.RecipePrice))
	}
	return out
}

// RecommendationTable renders ranked recipes. Matched ingredients are
// shown for category matches and matched weight for weight matches.
func RecommendationTable(results []domain.RecommendationResult) string {
	t := newTable("#", "ID", "Recipe", "Matched", "Score")
	for i, r := range results {
		score := fmt.Sprintf("%.2f", r.Similarity)
		if r.MatchType == domain.MatchWeight {
			score = grams(r.TotalMatchedWeight) + " used"
		}
		t.Row(strconv.Itoa(i+1), r.RecipeID, r.Name, strings.Join(r.Matched, ", "), score)
	}
	return t.String()
}

// RemainingTable renders leftovers after the recipe cart is cooked.
func RemainingTable(entries []domain.RemainingEntry) string {
	t := newTable("Product", "On hand", "Left")
	for _, e := range entries {
		t.Row(e.DisplayName, grams(e.OnHand())+e.Unit, grams(e.Weight)+e.Unit)
	}
	return t.String()
}

// IngredientList renders parsed ingredients as "name qty" pairs.
func IngredientList(ings []domain.ParsedIngredient) string {
	parts := make([]string, 0, len(ings))
	for _, ing := range ings {
		parts = append(parts, strings.TrimSpace(ing.Name+" "+ing.Quantity))
	}
	return strings.Join(parts, ", ")
}

// ReceiptTable renders a completed order.
func ReceiptTable(r *engine.Receipt) string {
	t := newTable("Product", "Qty", "Price")
	for _, it := range r.Items {
		t.Row(it.DisplayName, strconv.Itoa(it.Quantity), Won(it.UnitPrice*it.Quantity))
	}
	t.Row("total", strconv.Itoa(r.Totals.Items), Won(r.Totals.Price))
	return headerStyle.Render("  order "+r.OrderID) + "\n" + t.String()
}
