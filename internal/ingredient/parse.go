// Package ingredient turns free-text recipe ingredient lists into structured
// records and extracts numeric magnitudes from quantity fragments.
package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hammamikhairi/ottomart/internal/domain"
)

// Delimiter separates ingredient items in a recipe's raw text.
const Delimiter = "|"

var (
	bracketRe = regexp.MustCompile(`\[.*?\]`)
	parenRe   = regexp.MustCompile(`\(.*?\)`)
)

// Parse splits raw ingredient text ("감자300g|당근200g") into ordered
// ingredients. Bracketed and parenthesized annotations are removed first;
// the match is non-greedy, so nested brackets can swallow real text.
// Parse never fails: malformed input degrades to names with empty quantities.
func Parse(text string) []domain.ParsedIngredient {
	text = bracketRe.ReplaceAllString(text, "")
	text = parenRe.ReplaceAllString(text, "")

	var out []domain.ParsedIngredient
	for _, item := range strings.Split(text, Delimiter) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, parseItem(item))
	}
	return out
}

// parseItem splits one segment at its first digit.
func parseItem(item string) domain.ParsedIngredient {
	idx := strings.IndexFunc(item, unicode.IsDigit)
	if idx < 0 {
		return domain.ParsedIngredient{Name: squash(item)}
	}
	return domain.ParsedIngredient{
		Name:     squash(item[:idx]),
		Quantity: strings.TrimSpace(item[idx:]),
	}
}

// squash trims and drops internal spaces so "대파 흰부분" and "대파흰부분"
// compare equal.
func squash(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// Of returns the parsed ingredients of r, parsing its raw text when the
// catalog has not done so already.
func Of(r *domain.RecipeRecord) []domain.ParsedIngredient {
	if len(r.Ingredients) == 0 && r.InputRecipe != "" {
		return Parse(r.InputRecipe)
	}
	return r.Ingredients
}
