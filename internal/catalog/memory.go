package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.CatalogLoader      = (*MemoryLoader)(nil)
	_ domain.SimilarityProvider = (*MemoryLoader)(nil)
)

// Fixture is the on-disk shape of a catalog snapshot.
type Fixture struct {
	Recipes      []domain.RecipeRecord  `json:"recipes"`
	Products     []domain.Product       `json:"products"`
	Similarities []domain.SimilarityRow `json:"similarities"`
}

// MemoryLoader serves a catalog held in memory. Similarity rows with
// UserID 0 act as defaults for users without rows of their own.
// Safe for concurrent reads.
type MemoryLoader struct {
	mu  sync.RWMutex
	fx  Fixture
	log *logger.Logger
}

// NewMemoryLoader creates a loader preloaded with the built-in catalog.
func NewMemoryLoader(log *logger.Logger) *MemoryLoader {
	m := &MemoryLoader{fx: seed(), log: log}
	log.Debug("seeded %d recipes, %d products", len(m.fx.Recipes), len(m.fx.Products))
	return m
}

// LoadFile creates a loader from a JSON fixture file.
func LoadFile(path string, log *logger.Logger) (*MemoryLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decoding catalog fixture %s: %w", path, err)
	}
	log.Info("catalog fixture %s: %d recipes, %d products", path, len(fx.Recipes), len(fx.Products))
	return &MemoryLoader{fx: fx, log: log}, nil
}

// LoadRecipes implements domain.CatalogLoader.
func (m *MemoryLoader) LoadRecipes(ctx context.Context) ([]domain.RecipeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.RecipeRecord, len(m.fx.Recipes))
	copy(out, m.fx.Recipes)
	return out, nil
}

// LoadProducts implements domain.CatalogLoader.
func (m *MemoryLoader) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, len(m.fx.Products))
	copy(out, m.fx.Products)
	return out, nil
}

// Similarities implements domain.SimilarityProvider.
func (m *MemoryLoader) Similarities(ctx context.Context, userID int) ([]domain.SimilarityRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var own, defaults []domain.SimilarityRow
	for _, row := range m.fx.Similarities {
		switch row.UserID {
		case userID:
			own = append(own, row)
		case 0:
			row.UserID = userID
			defaults = append(defaults, row)
		}
	}
	if len(own) > 0 {
		return own, nil
	}
	return defaults, nil
}

// SetSimilarities replaces the rows of one user, as the nightly batch
// would.
func (m *MemoryLoader) SetSimilarities(userID int, rows []domain.SimilarityRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.fx.Similarities[:0:0]
	for _, row := range m.fx.Similarities {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	for _, row := range rows {
		row.UserID = userID
		kept = append(kept, row)
	}
	m.fx.Similarities = kept
	m.log.Info("similarity rows replaced for user %d: %d", userID, len(rows))
}

func seed() Fixture {
	recipes := []domain.RecipeRecord{
		{
			ID: "1001", Name: "감자조림", Category: "반찬", Style: "한식", PortionCount: 2, CookTime: "30분",
			MainIngredient: "감자",
			InputRecipe:    "감자300g|간장30ml|설탕15g|[선택] 통깨 약간",
			Instruction:    "감자를 깍둑썰어 물에 담갔다가 간장 양념에 졸인다.",
		},
		{
			ID: "1002", Name: "당근라페", Category: "샐러드", Style: "양식", PortionCount: 2, CookTime: "15분",
			MainIngredient: "당근",
			InputRecipe:    "당근200g|올리브유20ml|레몬즙10ml|소금 약간",
			Instruction:    "당근을 가늘게 채썰어 드레싱에 버무린다.",
		},
		{
			ID: "1003", Name: "돼지고기 카레", Category: "일품", Style: "일식", PortionCount: 4, CookTime: "40분",
			MainIngredient: "돼지고기",
			InputRecipe:    "돼지고기300g|감자200g|당근150g|양파(중) 200g|카레가루100g",
			Instruction:    "재료를 볶은 뒤 물을 붓고 카레가루를 풀어 끓인다.",
		},
		{
			ID: "1004", Name: "된장찌개", Category: "국/찌개", Style: "한식", PortionCount: 2, CookTime: "25분",
			MainIngredient: "두부",
			InputRecipe:    "된장40g|두부1모|애호박150g|양파100g|대파30g",
			Instruction:    "멸치 육수에 된장을 풀고 채소와 두부를 넣어 끓인다.",
		},
		{
			ID: "1005", Name: "제육볶음", Category: "일품", Style: "한식", PortionCount: 2, CookTime: "30분",
			MainIngredient: "돼지고기",
			InputRecipe:    "돼지고기400g|양파150g|대파50g|고추장45g|간장15ml",
			Instruction:    "고추장 양념에 재운 고기를 채소와 함께 센 불에 볶는다.",
		},
		{
			ID: "1006", Name: "계란말이", Category: "반찬", Style: "한식", PortionCount: 1, CookTime: "10분",
			MainIngredient: "계란",
			InputRecipe:    "계란3개|대파20g|당근30g|소금 약간",
			Instruction:    "계란물에 다진 채소를 섞어 얇게 부치며 말아준다.",
		},
		{
			ID: "1007", Name: "우유 푸딩", Category: "디저트", Style: "양식", PortionCount: 4, CookTime: "20분",
			MainIngredient: "우유",
			InputRecipe:    "우유500ml|설탕60g|계란2개|바닐라 약간",
			Instruction:    "데운 우유에 계란과 설탕을 섞어 중탕으로 굳힌다.",
		},
		{
			ID: "1008", Name: "애호박전", Category: "반찬", Style: "한식", PortionCount: 2, CookTime: "15분",
			MainIngredient: "애호박",
			InputRecipe:    "애호박300g|부침가루50g|계란1개",
			Instruction:    "동그랗게 썬 애호박에 부침가루와 계란물을 입혀 부친다.",
		},
	}

	products := []domain.Product{
		{ID: "P001", Domain: "식품", Division: "채소", Category: "감자/뿌리채소", Name: "수미 감자", Brand: domain.NoBrand, Weight: 1000, Unit: "g", Price: 4980, Image: "potato.jpg"},
		{ID: "P002", Domain: "식품", Division: "채소", Category: "당근/뿌리채소", Name: "흙당근", Brand: domain.NoBrand, Weight: 500, Unit: "g", Price: 2490, Image: "carrot.jpg"},
		{ID: "P003", Domain: "식품", Division: "채소", Category: "양파", Name: "국산 양파", Brand: domain.NoBrand, Weight: 1500, Unit: "g", Price: 3990, Image: "onion.jpg"},
		{ID: "P004", Domain: "식품", Division: "채소", Category: "대파/파", Name: "손질 대파", Brand: domain.NoBrand, Weight: 300, Unit: "g", Price: 1990, Image: "greenonion.jpg"},
		{ID: "P005", Domain: "식품", Division: "채소", Category: "애호박/호박", Name: "인큐 애호박", Brand: domain.NoBrand, Weight: 300, Unit: "g", Price: 1690, Image: "zucchini.jpg"},
		{ID: "P006", Domain: "식품", Division: "돼지고기", Category: "앞다리", Name: "한돈 앞다리살", Brand: "도드람", Weight: 600, Unit: "g", Price: 10800, Image: "pork-front.jpg"},
		{ID: "P007", Domain: "식품", Division: "돼지고기", Category: "목살", Name: "한돈 목살 구이용", Brand: "도드람", Weight: 500, Unit: "g", Price: 14900, Image: "pork-neck.jpg"},
		{ID: "P008", Domain: "식품", Division: "두부/콩", Category: "두부", Name: "국산콩 두부", Brand: "풀무원", Weight: 1, Unit: "모", Price: 2300, Image: "tofu.jpg"},
		{ID: "P009", Domain: "식품", Division: "계란", Category: "계란/유정란", Name: "유정란 10구", Brand: domain.NoBrand, Weight: 10, Unit: "개", Price: 4990, Image: "egg.jpg"},
		{ID: "P010", Domain: "식품", Division: "유제품", Category: "우유", Name: "서울우유 1L", Brand: "서울우유", Weight: 1000, Unit: "ml", Price: 2980, Image: "milk.jpg"},
		{ID: "P011", Domain: "식품", Division: "장류", Category: "된장", Name: "재래식 된장", Brand: "해찬들", Weight: 500, Unit: "g", Price: 5480, Image: "doenjang.jpg"},
		{ID: "P012", Domain: "식품", Division: "장류", Category: "고추장", Name: "태양초 고추장", Brand: "해찬들", Weight: 500, Unit: "g", Price: 6980, Image: "gochujang.jpg"},
		{ID: "P013", Domain: "식품", Division: "조미료", Category: "간장", Name: "양조간장", Brand: "샘표", Weight: 500, Unit: "ml", Price: 3980, Image: "soy.jpg"},
		{ID: "P014", Domain: "식품", Division: "조미료", Category: "카레", Name: "바몬드 카레 약간매운맛", Brand: "오뚜기", Weight: 100, Unit: "g", Price: 2480, Image: "curry.jpg"},
		{ID: "P015", Domain: "식품", Division: "조미료", Category: "설탕", Name: "백설 하얀설탕", Brand: "CJ", Weight: 1000, Unit: "g", Price: 2680, Image: "sugar.jpg"},
		{ID: "P016", Domain: "식품", Division: "오일", Category: "올리브유", Name: "엑스트라버진 올리브유", Brand: domain.NoBrand, Weight: 500, Unit: "ml", Price: 9900, Image: "olive.jpg"},
	}

	sims := []domain.SimilarityRow{
		{RecipeID: "1001", Name: "감자조림", Similarity: 0.62},
		{RecipeID: "1002", Name: "당근라페", Similarity: 0.48},
		{RecipeID: "1003", Name: "돼지고기 카레", Similarity: 0.81},
		{RecipeID: "1004", Name: "된장찌개", Similarity: 0.77},
		{RecipeID: "1005", Name: "제육볶음", Similarity: 0.85},
		{RecipeID: "1006", Name: "계란말이", Similarity: 0.55},
		{RecipeID: "1007", Name: "우유 푸딩", Similarity: 0.31},
		{RecipeID: "1008", Name: "애호박전", Similarity: 0.44, Exception: true},
	}

	return Fixture{Recipes: recipes, Products: products, Similarities: sims}
}
