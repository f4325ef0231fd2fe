package domain

// NoBrand is the catalog placeholder for products sold without a brand.
const NoBrand = "없음"

// Product is a purchasable catalog item.
type Product struct {
	ID       string  `json:"id"`
	Domain   string  `json:"domain"`
	Division string  `json:"division"` // may be a "/"-delimited multi-level tag
	Category string  `json:"category"` // may be a "/"-delimited multi-level tag
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Weight   float64 `json:"weight"` // per-unit weight
	Unit     string  `json:"unit"`
	Price    int     `json:"price"`
	Image    string  `json:"image"`
}

// DisplayBrand returns the brand, or "" for unbranded products.
func (p Product) DisplayBrand() string {
	if p.Brand == NoBrand {
		return ""
	}
	return p.Brand
}
