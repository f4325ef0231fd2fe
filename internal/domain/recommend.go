package domain

// Mode selects how recommendations are scored.
type Mode int

const (
	// ModeBasic ranks recipes by category affinity with the cart.
	ModeBasic Mode = iota
	// ModeRemain ranks recipes by how much leftover stock they use up.
	ModeRemain
	// ModePreference ranks recipes by user similarity alone.
	ModePreference
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeRemain:
		return "remain"
	case ModePreference:
		return "preference"
	default:
		return "unknown"
	}
}

// MatchType records which heuristic admitted a recommendation.
type MatchType int

const (
	MatchNone MatchType = iota
	MatchCategory
	MatchWeight
)

// String returns the match type name.
func (t MatchType) String() string {
	switch t {
	case MatchCategory:
		return "category"
	case MatchWeight:
		return "weight"
	default:
		return ""
	}
}

// SimilarityRow is one precomputed user-recipe affinity.
// Exception permanently hides the recipe from preference results.
type SimilarityRow struct {
	UserID        int     `json:"user_num"`
	RecipeID      string  `json:"id"`
	Name          string  `json:"name"`
	Similarity    float64 `json:"similarity"`
	Exception     bool    `json:"exception"`
	PartitionDate string  `json:"partition_date"`
}

// RecommendationResult is one ranked recipe.
type RecommendationResult struct {
	RecipeID           string
	Name               string
	Similarity         float64
	ImgURL             string
	IngredientNames    []string
	Matched            []string
	MatchedPriorities  []int
	MatchedWeights     []float64
	TotalMatchedWeight float64
	MatchType          MatchType
	PortionCount       int
}
