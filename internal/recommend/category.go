package recommend

import (
	"sort"
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
)

// tagIndex holds the distinct "/"-separated tags of a cart and a priority
// per tag. Priorities follow sorted tag order so ranking is reproducible.
type tagIndex struct {
	tags     []string
	priority map[string]int
}

func newTagIndex(values []string) tagIndex {
	seen := make(map[string]bool)
	var tags []string
	for _, v := range values {
		if v == "" {
			continue
		}
		for _, part := range strings.Split(v, "/") {
			part = strings.TrimSpace(part)
			// An empty tag would be a substring of every ingredient.
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			tags = append(tags, part)
		}
	}
	sort.Strings(tags)

	idx := tagIndex{tags: tags, priority: make(map[string]int, len(tags))}
	for i, t := range tags {
		idx.priority[t] = i
	}
	return idx
}

// overlap returns the best (lowest) priority among tags that contain or are
// contained in name.
func (t tagIndex) overlap(name string) (int, bool) {
	best, found := noPriority, false
	for _, tag := range t.tags {
		if strings.Contains(name, tag) || strings.Contains(tag, name) {
			found = true
			if p := t.priority[tag]; p < best {
				best = p
			}
		}
	}
	return best, found
}

// exact returns the priority of a tag equal to name.
func (t tagIndex) exact(name string) (int, bool) {
	p, ok := t.priority[name]
	return p, ok
}

func byCategory(view domain.CartView, pool []candidate, excluded map[string]bool) []domain.RecommendationResult {
	var cats, divs []string
	for _, e := range view {
		cats = append(cats, e.Category)
		divs = append(divs, e.Division)
	}
	categories := newTagIndex(cats)
	divisions := newTagIndex(divs)

	var out []domain.RecommendationResult
	for _, c := range pool {
		if excluded[c.recipe.ID] {
			continue
		}
		ings := ingredient.Of(c.recipe)

		var matched []string
		var priorities []int
		for _, ing := range ings {
			// A bare quantity parses to an empty name, which would overlap every tag.
			if ing.Name == "" {
				continue
			}
			if p, ok := categories.overlap(ing.Name); ok {
				matched = append(matched, ing.Name)
				priorities = append(priorities, p)
				continue
			}
			if p, ok := divisions.exact(ing.Name); ok {
				matched = append(matched, ing.Name)
				priorities = append(priorities, p)
			}
		}
		if len(matched) == 0 {
			continue
		}

		r := newResult(c, ings)
		r.Matched = matched
		r.MatchedPriorities = priorities
		r.MatchType = domain.MatchCategory
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := typeRank(a), typeRank(b); ra != rb {
			return ra < rb
		}
		if len(a.Matched) != len(b.Matched) {
			return len(a.Matched) > len(b.Matched)
		}
		if pa, pb := minPriority(a.MatchedPriorities), minPriority(b.MatchedPriorities); pa != pb {
			return pa < pb
		}
		return a.Similarity > b.Similarity
	})
	return out
}

// typeRank puts category matches ahead of anything else.
func typeRank(r domain.RecommendationResult) int {
	if r.MatchType == domain.MatchCategory {
		return 0
	}
	return 1
}

func minPriority(ps []int) int {
	best := noPriority
	for _, p := range ps {
		if p < best {
			best = p
		}
	}
	return best
}

// Missing returns the ingredients of ings that the basic-mode match would
// not admit against view. Ingredients without a name are skipped.
func Missing(view domain.CartView, ings []domain.ParsedIngredient) []domain.ParsedIngredient {
	var cats, divs []string
	for _, e := range view {
		cats = append(cats, e.Category)
		divs = append(divs, e.Division)
	}
	categories := newTagIndex(cats)
	divisions := newTagIndex(divs)

	var out []domain.ParsedIngredient
	for _, ing := range ings {
		// Nothing to search for.
		if ing.Name == "" {
			continue
		}
		if _, ok := categories.overlap(ing.Name); ok {
			continue
		}
		if _, ok := divisions.exact(ing.Name); ok {
			continue
		}
		out = append(out, ing)
	}
	return out
}
