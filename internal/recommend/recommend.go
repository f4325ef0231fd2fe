// Package recommend ranks catalog recipes for a shopper.
//
// Three modes share one candidate pool (the user's non-excepted similarity
// rows joined against the catalog) and differ in scoring:
//
//   - preference: similarity only.
//   - basic: recipes whose ingredients overlap the cart's category or
//     division tags, most overlaps first.
//   - remain: recipes that use up the most leftover weight.
//
// Everything here is pure; nothing performs I/O or keeps state.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
)

// noPriority ranks results without any recorded priority last.
const noPriority = 999

var modeNames = map[string]domain.Mode{
	"basic":      domain.ModeBasic,
	"remain":     domain.ModeRemain,
	"preference": domain.ModePreference,
}

// ParseMode converts a mode name. Unknown names wrap domain.ErrInvalidMode.
func ParseMode(s string) (domain.Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMode, s)
	}
	return m, nil
}

type candidate struct {
	recipe     *domain.RecipeRecord
	similarity float64
}

// Recommend ranks recipes from catalog for userID under mode. Recipe IDs in
// exclude are never returned. An empty view yields no results for the
// cart-driven modes.
func Recommend(
	view domain.CartView,
	catalog []domain.RecipeRecord,
	sims []domain.SimilarityRow,
	userID int,
	mode domain.Mode,
	exclude []string,
) ([]domain.RecommendationResult, error) {
	switch mode {
	case domain.ModeBasic, domain.ModeRemain, domain.ModePreference:
	default:
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidMode, int(mode))
	}

	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	pool := candidates(catalog, sims, userID)

	switch mode {
	case domain.ModePreference:
		return byPreference(pool, excluded), nil
	case domain.ModeBasic:
		if len(view) == 0 {
			return nil, nil
		}
		return byCategory(view, pool, excluded), nil
	default:
		if len(view) == 0 {
			return nil, nil
		}
		return byWeight(view, pool, excluded), nil
	}
}

// candidates joins the user's usable similarity rows against the catalog,
// in catalog order. A repeated recipe row overrides the earlier score.
func candidates(catalog []domain.RecipeRecord, sims []domain.SimilarityRow, userID int) []candidate {
	scores := make(map[string]float64)
	for _, row := range sims {
		if row.UserID != userID || row.Exception {
			continue
		}
		scores[row.RecipeID] = row.Similarity
	}

	var pool []candidate
	for i := range catalog {
		if s, ok := scores[catalog[i].ID]; ok {
			pool = append(pool, candidate{recipe: &catalog[i], similarity: s})
		}
	}
	return pool
}

func newResult(c candidate, ings []domain.ParsedIngredient) domain.RecommendationResult {
	names := make([]string, 0, len(ings))
	for _, ing := range ings {
		names = append(names, ing.Name)
	}
	return domain.RecommendationResult{
		RecipeID:        c.recipe.ID,
		Name:            c.recipe.Name,
		Similarity:      c.similarity,
		ImgURL:          c.recipe.ImgURL,
		IngredientNames: names,
		PortionCount:    c.recipe.PortionCount,
	}
}

func byPreference(pool []candidate, excluded map[string]bool) []domain.RecommendationResult {
	sorted := make([]candidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].similarity > sorted[j].similarity
	})

	out := make([]domain.RecommendationResult, 0, len(sorted))
	for _, c := range sorted {
		if excluded[c.recipe.ID] {
			continue
		}
		out = append(out, newResult(c, ingredient.Of(c.recipe)))
	}
	return out
}

// Top returns at most n results. n <= 0 returns them all.
func Top(results []domain.RecommendationResult, n int) []domain.RecommendationResult {
	if n <= 0 || len(results) <= n {
		return results
	}
	return results[:n]
}
