// Package search implements keyword lookups over the in-memory catalog.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hammamikhairi/ottomart/internal/domain"
)

// Products returns the products matching query, best group first.
//
// A product matches by category when query is one of its "/"-separated
// category elements. When any product matches that way, the category hits
// come first followed by products whose name contains query. Otherwise
// products whose division contains query come first, again followed by
// name hits. Single-character queries skip the name pass since they match
// almost everything. Catalog order is kept inside each group.
func Products(query string, products []domain.Product) []domain.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	primary := make([]bool, len(products))
	hits := 0
	for i := range products {
		if hasElement(products[i].Category, query) {
			primary[i] = true
			hits++
		}
	}
	if hits == 0 {
		for i := range products {
			if strings.Contains(products[i].Division, query) {
				primary[i] = true
				hits++
			}
		}
	}

	out := make([]domain.Product, 0, hits)
	for i := range products {
		if primary[i] {
			out = append(out, products[i])
		}
	}
	if utf8.RuneCountInString(query) == 1 {
		return out
	}
	for i := range products {
		if !primary[i] && strings.Contains(products[i].Name, query) {
			out = append(out, products[i])
		}
	}
	return out
}

func hasElement(category, query string) bool {
	for _, part := range strings.Split(category, "/") {
		if part == query {
			return true
		}
	}
	return false
}

// Recipes ranks recipes by how many query words appear in their name or
// ingredient names. Recipes matching no word are dropped. Ties keep
// catalog order.
func Recipes(query string, recipes []domain.RecipeRecord) []domain.RecipeHit {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil
	}

	var hits []domain.RecipeHit
	for i := range recipes {
		r := &recipes[i]
		haystack := r.Name + " " + strings.Join(r.IngredientNames(), " ") + " " + r.InputRecipe
		n := 0
		for _, w := range words {
			if strings.Contains(haystack, w) {
				n++
			}
		}
		if n == 0 {
			continue
		}
		hits = append(hits, domain.RecipeHit{
			Recipe:     *r,
			Similarity: float64(n) / float64(len(words)),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	return hits
}

// Source supplies the tables an Index searches.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Recipes(ctx context.Context) ([]domain.RecipeRecord, error)
}

// Index answers keyword searches against a Source. It is the in-process
// fallback for the product searcher and the recipe oracle.
type Index struct {
	src Source
}

var (
	_ domain.ProductSearcher = (*Index)(nil)
	_ domain.RecipeOracle    = (*Index)(nil)
)

// NewIndex creates an index over src.
func NewIndex(src Source) *Index {
	return &Index{src: src}
}

// SearchProducts implements domain.ProductSearcher.
func (x *Index) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := x.src.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	return Products(query, products), nil
}

// SimilarRecipes implements domain.RecipeOracle with word overlap.
func (x *Index) SimilarRecipes(ctx context.Context, query string, topN int) ([]domain.RecipeHit, error) {
	recipes, err := x.src.Recipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	hits := Recipes(query, recipes)
	if topN > 0 && len(hits) > topN {
		hits = hits[:topN]
	}
	return hits, nil
}
