package pgstore

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

var _ domain.RecipeOracle = (*VectorOracle)(nil)

// Embedder turns texts into vectors, one per text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// VectorOracle ranks recipes by cosine similarity between the query
// embedding and the stored recipe embeddings.
type VectorOracle struct {
	db  DB
	emb Embedder
	log *logger.Logger
}

// NewVectorOracle creates an oracle on db using emb for query vectors.
func NewVectorOracle(db DB, emb Embedder, log *logger.Logger) *VectorOracle {
	return &VectorOracle{db: db, emb: emb, log: log}
}

const selectSimilarRecipes = `
SELECT r.id, r.name, COALESCE(r.inputrecipe, ''), COALESCE(r.imgurl, ''), COALESCE(r.portnum, 0),
       COALESCE(r.style, ''), COALESCE(r.category, ''), COALESCE(r.ingredient, ''),
       1 - (e.embedding <=> $1) AS similarity
FROM recipe_embedding e
JOIN recipe r ON r.id = e.recipe_id
ORDER BY e.embedding <=> $1
LIMIT $2`

// SimilarRecipes implements domain.RecipeOracle.
func (o *VectorOracle) SimilarRecipes(ctx context.Context, query string, topN int) ([]domain.RecipeHit, error) {
	if topN <= 0 {
		topN = 10
	}
	vecs, err := o.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding query: got %d vectors", len(vecs))
	}

	rows, err := o.db.Query(ctx, selectSimilarRecipes, pgvector.NewVector(vecs[0]), topN)
	if err != nil {
		return nil, fmt.Errorf("querying similar recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.RecipeHit
	for rows.Next() {
		var h domain.RecipeHit
		r := &h.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.InputRecipe, &r.ImgURL, &r.PortionCount,
			&r.Style, &r.Category, &r.MainIngredient, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scanning similar recipe: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating similar recipes: %w", err)
	}
	o.log.Debug("vector search %q: %d hits", query, len(out))
	return out, nil
}

// DocumentText is the text embedded for a recipe.
func DocumentText(r *domain.RecipeRecord) string {
	return fmt.Sprintf("%s: %s, 재료: %s, 카테고리: %s, 조리방법: %s, 유형: %s, 주재료: %s",
		r.ID, r.Name, r.InputRecipe, r.Category, r.Instruction, r.Style, r.MainIngredient)
}

const upsertEmbedding = `
INSERT INTO recipe_embedding (recipe_id, model, embedding)
VALUES ($1, $2, $3)
ON CONFLICT (recipe_id) DO UPDATE SET model = EXCLUDED.model, embedding = EXCLUDED.embedding`

// IndexRecipes embeds recipes in batches and upserts their vectors.
// It returns the number of recipes written.
func (o *VectorOracle) IndexRecipes(ctx context.Context, recipes []domain.RecipeRecord, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 64
	}
	written := 0
	for start := 0; start < len(recipes); start += batchSize {
		end := min(start+batchSize, len(recipes))
		batch := recipes[start:end]

		docs := make([]string, len(batch))
		for i := range batch {
			docs[i] = DocumentText(&batch[i])
		}
		vecs, err := o.emb.Embed(ctx, docs)
		if err != nil {
			return written, fmt.Errorf("embedding batch at %d: %w", start, err)
		}
		if len(vecs) != len(batch) {
			return written, fmt.Errorf("embedding batch at %d: got %d vectors for %d recipes", start, len(vecs), len(batch))
		}

		for i := range batch {
			if _, err := o.db.Exec(ctx, upsertEmbedding, batch[i].ID, o.emb.Model(), pgvector.NewVector(vecs[i])); err != nil {
				return written, fmt.Errorf("storing embedding for %s: %w", batch[i].ID, err)
			}
			written++
		}
		o.log.Info("indexed %d/%d recipes", written, len(recipes))
	}
	return written, nil
}
