package recommend

import (
	"sort"
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
)

func byWeight(view domain.CartView, pool []candidate, excluded map[string]bool) []domain.RecommendationResult {
	names := make([]string, 0, len(view))
	for _, e := range view {
		name := e.DisplayName
		if name == "" {
			name = e.Key
		}
		names = append(names, name)
	}

	var out []domain.RecommendationResult
	for _, c := range pool {
		if excluded[c.recipe.ID] {
			continue
		}
		ings := ingredient.Of(c.recipe)

		var matched []string
		var weights []float64
		var total float64
		for _, ing := range ings {
			// Empty names are substrings of every key.
			if ing.Name == "" {
				continue
			}
			w := ingredient.Magnitude(ing.Quantity)
			for _, name := range names {
				if strings.Contains(name, ing.Name) || strings.Contains(ing.Name, name) {
					matched = append(matched, ing.Name)
					weights = append(weights, w)
					total += w
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		r := newResult(c, ings)
		r.Matched = matched
		r.MatchedWeights = weights
		r.TotalMatchedWeight = total
		r.MatchType = domain.MatchWeight
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalMatchedWeight != b.TotalMatchedWeight {
			return a.TotalMatchedWeight > b.TotalMatchedWeight
		}
		if len(a.Matched) != len(b.Matched) {
			return len(a.Matched) > len(b.Matched)
		}
		return a.Similarity > b.Similarity
	})
	return out
}
