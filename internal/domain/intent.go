package domain

// IntentType classifies what the shopper wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListRecipes
	IntentSearchProducts
	IntentSearchRecipes
	IntentAddProduct
	IntentRemoveItem
	IntentSetQuantity
	IntentShowCart
	IntentClearCart
	IntentAddRecipe
	IntentRemoveRecipe
	IntentRecommend
	IntentRemaining
	IntentServingPrice
	IntentFillRecipe // add products for ingredients the cart is missing
	IntentPurchase
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListRecipes:
		return "list_recipes"
	case IntentSearchProducts:
		return "search_products"
	case IntentSearchRecipes:
		return "search_recipes"
	case IntentAddProduct:
		return "add_product"
	case IntentRemoveItem:
		return "remove_item"
	case IntentSetQuantity:
		return "set_quantity"
	case IntentShowCart:
		return "show_cart"
	case IntentClearCart:
		return "clear_cart"
	case IntentAddRecipe:
		return "add_recipe"
	case IntentRemoveRecipe:
		return "remove_recipe"
	case IntentRecommend:
		return "recommend"
	case IntentRemaining:
		return "remaining"
	case IntentServingPrice:
		return "serving_price"
	case IntentFillRecipe:
		return "fill_recipe"
	case IntentPurchase:
		return "purchase"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed shell command.
type Intent struct {
	Type IntentType
	Args []string
}

// Arg returns the i-th argument or "".
func (in *Intent) Arg(i int) string {
	if i < 0 || i >= len(in.Args) {
		return ""
	}
	return in.Args[i]
}
