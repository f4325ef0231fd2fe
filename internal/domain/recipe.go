// Package domain defines the core types and interfaces for the market
// recommender. All other packages depend on domain; domain depends on nothing.
package domain

// ParsedIngredient is one structured entry of a recipe's ingredient text.
// Quantity keeps the raw numeric-plus-unit fragment ("300g"); callers
// extract a magnitude from it when they need one.
type ParsedIngredient struct {
	Name     string `json:"ingredient"`
	Quantity string `json:"quantity"`
}

// RecipeRecord is a row of the external recipe catalog.
type RecipeRecord struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	InputRecipe    string             `json:"input_recipe"` // raw "name qty|name qty" ingredient text
	Ingredients    []ParsedIngredient `json:"ingredients,omitempty"`
	Category       string             `json:"category"`
	Style          string             `json:"style"`
	Instruction    string             `json:"instruction"`
	MainIngredient string             `json:"main_ingredient"`
	PortionCount   int                `json:"port_num"`
	ImgURL         string             `json:"img_url"`
	CookTime       string             `json:"time"`
}

// IngredientNames returns the names of the parsed ingredients in order.
func (r *RecipeRecord) IngredientNames() []string {
	out := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		out = append(out, ing.Name)
	}
	return out
}

// RecipeHit is a recipe returned by the free-text similarity oracle.
type RecipeHit struct {
	Recipe     RecipeRecord
	Similarity float64
}
