package pgstore

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0.5, 0.25}
	}
	return out, nil
}

func (f *fakeEmbedder) Model() string { return "fake" }

func TestVectorOracle_SimilarRecipes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	emb := &fakeEmbedder{}
	oracle := NewVectorOracle(mock, emb, logger.New(logger.LevelOff, nil))

	rows := pgxmock.NewRows([]string{"id", "name", "inputrecipe", "imgurl", "portnum", "style", "category", "ingredient", "similarity"}).
		AddRow("1003", "돼지고기 카레", "돼지고기300g", "", 4, "일식", "일품", "돼지고기", 0.91).
		AddRow("1005", "제육볶음", "돼지고기400g", "", 2, "한식", "일품", "돼지고기", 0.87)
	mock.ExpectQuery("FROM recipe_embedding").
		WithArgs(pgxmock.AnyArg(), 2).
		WillReturnRows(rows)

	hits, err := oracle.SimilarRecipes(context.Background(), "매콤한 돼지고기", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "1003", hits[0].Recipe.ID)
	assert.InDelta(t, 0.91, hits[0].Similarity, 1e-9)
	assert.Equal(t, [][]string{{"매콤한 돼지고기"}}, emb.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorOracle_EmbedError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oracle := NewVectorOracle(mock, &fakeEmbedder{err: errors.New("model not loaded")}, logger.New(logger.LevelOff, nil))
	_, err = oracle.SimilarRecipes(context.Background(), "카레", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding query")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorOracle_IndexRecipes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	emb := &fakeEmbedder{}
	oracle := NewVectorOracle(mock, emb, logger.New(logger.LevelOff, nil))

	recipes := []domain.RecipeRecord{{ID: "a", Name: "가"}, {ID: "b", Name: "나"}, {ID: "c", Name: "다"}}
	for _, r := range recipes {
		mock.ExpectExec("INSERT INTO recipe_embedding").
			WithArgs(r.ID, "fake", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	n, err := oracle.IndexRecipes(context.Background(), recipes, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, emb.calls, 2, "three recipes in batches of two")
	assert.Len(t, emb.calls[1], 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentText(t *testing.T) {
	r := domain.RecipeRecord{ID: "1", Name: "카레", InputRecipe: "감자200g", Category: "일품", Instruction: "끓인다", Style: "일식", MainIngredient: "감자"}
	assert.Equal(t, "1: 카레, 재료: 감자200g, 카테고리: 일품, 조리방법: 끓인다, 유형: 일식, 주재료: 감자", DocumentText(&r))
}
