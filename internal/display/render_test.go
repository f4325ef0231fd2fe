package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/ottomart/internal/cart"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/engine"
)

func TestWon(t *testing.T) {
	assert.Equal(t, "0원", Won(0))
	assert.Equal(t, "4,980원", Won(4980))
	assert.Equal(t, "1,234,567원", Won(1234567))
}

func TestCartTable(t *testing.T) {
	s := &engine.CartSummary{
		Entries: []domain.CartEntry{
			{Key: "수미_감자_potato.jpg", DisplayName: "수미 감자", Quantity: 2, UnitWeight: 1000, Unit: "g", UnitPrice: 4980},
		},
		Totals:      cart.Totals{Items: 2, Price: 9960},
		Recipes:     []domain.RecipeRecord{{ID: "1001", Name: "감자조림"}},
		RecipePrice: 747,
	}

	out := CartTable(s)
	for _, want := range []string{"수미 감자", "1000g", "9,960원", "감자조림 (1001)", "747원"} {
		assert.Contains(t, out, want)
	}
}

func TestRecommendationTable(t *testing.T) {
	out := RecommendationTable([]domain.RecommendationResult{
		{RecipeID: "1007", Name: "우유 푸딩", Matched: []string{"우유"}, TotalMatchedWeight: 500, MatchType: domain.MatchWeight},
		{RecipeID: "1003", Name: "돼지고기 카레", Matched: []string{"감자", "당근"}, Similarity: 0.81, MatchType: domain.MatchCategory},
	})
	assert.Contains(t, out, "500 used")
	assert.Contains(t, out, "감자, 당근")
	assert.Contains(t, out, "0.81")
	assert.Less(t, strings.Index(out, "우유 푸딩"), strings.Index(out, "돼지고기 카레"))
}

func TestRemainingAndReceipt(t *testing.T) {
	rem := RemainingTable([]domain.RemainingEntry{{
		CartEntry: domain.CartEntry{DisplayName: "흙당근", UnitWeight: 500, Quantity: 1, Unit: "g"},
		Weight:    350,
	}})
	assert.Contains(t, rem, "500g")
	assert.Contains(t, rem, "350g")

	receipt := ReceiptTable(&engine.Receipt{
		OrderID: "2503040506077",
		Items:   []domain.CartEntry{{DisplayName: "양조간장", Quantity: 1, UnitPrice: 3980}},
		Totals:  cart.Totals{Items: 1, Price: 3980},
	})
	assert.Contains(t, receipt, "2503040506077")
	assert.Contains(t, receipt, "3,980원")
}

func TestIngredientList(t *testing.T) {
	got := IngredientList([]domain.ParsedIngredient{{Name: "카레가루", Quantity: "100g"}, {Name: "소금약간"}})
	assert.Equal(t, "카레가루 100g, 소금약간", got)
}

func TestRenderBannerCentres(t *testing.T) {
	out := renderBanner(200, "tagline")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "   "), "expected left padding")
	assert.Contains(t, out, "tagline")
}
