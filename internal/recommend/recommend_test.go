package recommend

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/ottomart/internal/domain"
)

const user = 7

func catalog() []domain.RecipeRecord {
	return []domain.RecipeRecord{
		{ID: "r1", Name: "감자조림", Ingredients: []domain.ParsedIngredient{
			{Name: "감자", Quantity: "300g"}, {Name: "간장", Quantity: "30ml"},
		}},
		{ID: "r2", Name: "당근라페", Ingredients: []domain.ParsedIngredient{
			{Name: "당근", Quantity: "200g"}, {Name: "올리브유", Quantity: "20ml"},
		}},
		{ID: "r3", Name: "카레", Ingredients: []domain.ParsedIngredient{
			{Name: "감자", Quantity: "200g"}, {Name: "당근", Quantity: "150g"}, {Name: "돼지고기", Quantity: "300g"},
		}},
		{ID: "r4", Name: "계란말이", InputRecipe: "계란3개|대파20g"},
	}
}

func sims() []domain.SimilarityRow {
	return []domain.SimilarityRow{
		{UserID: user, RecipeID: "r1", Similarity: 0.4},
		{UserID: user, RecipeID: "r2", Similarity: 0.9},
		{UserID: user, RecipeID: "r3", Similarity: 0.6},
		{UserID: user, RecipeID: "r4", Similarity: 0.95, Exception: true},
		{UserID: 99, RecipeID: "r1", Similarity: 1.0},
	}
}

func ids(rs []domain.RecommendationResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.RecipeID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]domain.Mode{
		"basic": domain.ModeBasic, " Remain ": domain.ModeRemain, "preference": domain.ModePreference,
	} {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseMode("spicy"); !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestRecommendInvalidMode(t *testing.T) {
	got, err := Recommend(nil, catalog(), sims(), user, domain.Mode(42), nil)
	if !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no partial result, got %+v", got)
	}
}

func TestPreference(t *testing.T) {
	got, err := Recommend(nil, catalog(), sims(), user, domain.ModePreference, []string{"r3"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"r2", "r1"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for _, r := range got {
		if len(r.Matched) != 0 {
			t.Fatalf("preference result carries matches: %+v", r)
		}
		if r.RecipeID == "r4" {
			t.Fatal("excepted recipe returned")
		}
	}
}

func TestPreferenceDuplicateRowLastWins(t *testing.T) {
	rows := append(sims(), domain.SimilarityRow{UserID: user, RecipeID: "r1", Similarity: 0.99})
	got, _ := Recommend(nil, catalog(), rows, user, domain.ModePreference, nil)
	if got[0].RecipeID != "r1" || got[0].Similarity != 0.99 {
		t.Fatalf("expected r1 first with 0.99, got %+v", got[0])
	}
}

func TestEmptyViewShortCircuits(t *testing.T) {
	for _, m := range []domain.Mode{domain.ModeBasic, domain.ModeRemain} {
		got, err := Recommend(domain.CartView{}, catalog(), sims(), user, m, nil)
		if err != nil || len(got) != 0 {
			t.Fatalf("mode %v: got %v, %v", m, got, err)
		}
	}
}

func TestBasic(t *testing.T) {
	view := domain.CartView{
		{Key: "k1", DisplayName: "흙당근", Category: "당근/뿌리채소", Division: "채소"},
		{Key: "k2", DisplayName: "수미감자", Category: "감자", Division: "채소"},
		{Key: "k3", DisplayName: "목살", Category: "", Division: "돼지고기"},
	}
	got, err := Recommend(view, catalog(), sims(), user, domain.ModeBasic, nil)
	if err != nil {
		t.Fatal(err)
	}

	// r3 matches three ingredients; r1 and r2 one each. Sorted category tokens
	// are [감자 당근 뿌리채소], so 감자 (r1) outranks 당근 (r2).
	if want := []string{"r3", "r1", "r2"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for _, r := range got {
		if len(r.Matched) == 0 {
			t.Fatalf("basic returned recipe with no matches: %+v", r)
		}
		if r.MatchType != domain.MatchCategory {
			t.Fatalf("unexpected match type %v", r.MatchType)
		}
	}
	if got[0].MatchedPriorities[2] != 0 {
		t.Fatalf("division match priority = %d, want 0", got[0].MatchedPriorities[2])
	}
}

func TestBasicTieBreaks(t *testing.T) {
	// One match each; sorted tokens give 간장 priority 0 and 올리브유 priority 1.
	view := domain.CartView{{Key: "k", Category: "올리브유/간장"}}
	got, _ := Recommend(view, catalog(), sims(), user, domain.ModeBasic, nil)
	if want := []string{"r1", "r2"}; !equal(ids(got), want) {
		t.Fatalf("priority: got %v, want %v", ids(got), want)
	}

	// Same count and priority: higher similarity first.
	view = domain.CartView{{Key: "k", Category: "당근"}}
	got, _ = Recommend(view, catalog(), sims(), user, domain.ModeBasic, nil)
	if want := []string{"r2", "r3"}; !equal(ids(got), want) {
		t.Fatalf("similarity: got %v, want %v", ids(got), want)
	}
}

func TestBasicExclude(t *testing.T) {
	view := domain.CartView{{Key: "k", Category: "감자"}}
	got, _ := Recommend(view, catalog(), sims(), user, domain.ModeBasic, []string{"r3"})
	if want := []string{"r1"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestRemain(t *testing.T) {
	view := domain.CartView{
		{Key: "k1", DisplayName: "당근", Weight: 400},
		{Key: "k2", DisplayName: "돼지고기 앞다리", Weight: 500},
	}
	got, err := Recommend(view, catalog(), sims(), user, domain.ModeRemain, nil)
	if err != nil {
		t.Fatal(err)
	}
	// r3: 당근150 + 돼지고기300 = 450; r2: 당근200 = 200.
	if want := []string{"r3", "r2"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].TotalMatchedWeight > got[i-1].TotalMatchedWeight {
			t.Fatalf("results not sorted by total weight: %+v", got)
		}
	}
	if got[0].TotalMatchedWeight != 450 || got[0].MatchType != domain.MatchWeight {
		t.Fatalf("unexpected head %+v", got[0])
	}
}

func TestRemainFallsBackToKey(t *testing.T) {
	view := domain.CartView{{Key: "감자_potato.jpg", Weight: 200}}
	got, _ := Recommend(view, catalog(), sims(), user, domain.ModeRemain, nil)
	if want := []string{"r1", "r3"}; !equal(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestUnnamedIngredientNeverMatches(t *testing.T) {
	recipes := []domain.RecipeRecord{{ID: "bare", Name: "계량만", InputRecipe: "300g|[국산] 200g"}}
	rows := []domain.SimilarityRow{{UserID: user, RecipeID: "bare", Similarity: 0.5}}
	view := domain.CartView{{Key: "감자_a.jpg", DisplayName: "수미감자", Category: "감자", Division: "채소", Weight: 500}}

	for _, m := range []domain.Mode{domain.ModeBasic, domain.ModeRemain} {
		got, err := Recommend(view, recipes, rows, user, m, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("mode %v: unnamed ingredients matched %+v", m, got)
		}
	}
}

func TestTop(t *testing.T) {
	rs := make([]domain.RecommendationResult, 5)
	if len(Top(rs, 3)) != 3 {
		t.Fatal("expected 3")
	}
	if len(Top(rs, 0)) != 5 || len(Top(rs, 10)) != 5 {
		t.Fatal("expected all")
	}
}

func TestMissing(t *testing.T) {
	view := domain.CartView{
		{Key: "a", DisplayName: "감자", Category: "뿌리채소/감자", Division: "채소"},
		{Key: "b", DisplayName: "삼겹살", Category: "돼지", Division: "돼지고기"},
	}
	ings := []domain.ParsedIngredient{
		{Name: "감자", Quantity: "200g"},
		{Name: "당근", Quantity: "150g"},
		{Name: "돼지고기", Quantity: "300g"},
		{Name: ""},
	}

	got := Missing(view, ings)
	if len(got) != 1 || got[0].Name != "당근" {
		t.Fatalf("expected only 당근 missing, got %+v", got)
	}
	if len(Missing(nil, ings)) != 3 {
		t.Fatal("empty cart should miss every named ingredient")
	}
}
