package pgstore

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.CatalogLoader      = (*Store)(nil)
	_ domain.SimilarityProvider = (*Store)(nil)
	_ domain.EventSink          = (*Store)(nil)
)

// Store reads the catalog and similarity tables and appends to user_logs.
type Store struct {
	db  DB
	log *logger.Logger
}

// New creates a store on db.
func New(db DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log}
}

const selectRecipes = `
SELECT id, name, COALESCE(inputrecipe, ''), COALESCE(imgurl, ''), COALESCE(portnum, 0),
       COALESCE(style, ''), COALESCE(instruction, ''), COALESCE(ingredient, ''),
       COALESCE(category, ''), COALESCE(time, '')
FROM recipe
ORDER BY id`

// LoadRecipes implements domain.CatalogLoader. Ingredient text is left raw.
func (s *Store) LoadRecipes(ctx context.Context) ([]domain.RecipeRecord, error) {
	rows, err := s.db.Query(ctx, selectRecipes)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.RecipeRecord
	for rows.Next() {
		var r domain.RecipeRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.InputRecipe, &r.ImgURL, &r.PortionCount,
			&r.Style, &r.Instruction, &r.MainIngredient, &r.Category, &r.CookTime); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	s.log.Debug("loaded %d recipes from postgres", len(out))
	return out, nil
}

const selectProducts = `
SELECT id, COALESCE(domain, ''), COALESCE(division, ''), COALESCE(category, ''), name,
       COALESCE(brand, ''), COALESCE(weight, 0), COALESCE(unit, ''), COALESCE(price, 0),
       COALESCE(image, '')
FROM product
ORDER BY id`

// LoadProducts implements domain.CatalogLoader.
func (s *Store) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Domain, &p.Division, &p.Category, &p.Name,
			&p.Brand, &p.Weight, &p.Unit, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	s.log.Debug("loaded %d products from postgres", len(out))
	return out, nil
}

const selectSimilarities = `
SELECT usernum, id, COALESCE(name, ''), similarity, exception, COALESCE(partitiondate, '')
FROM similarity
WHERE usernum = $1`

// Similarities implements domain.SimilarityProvider. Rows are returned as
// the batch job wrote them.
func (s *Store) Similarities(ctx context.Context, userID int) ([]domain.SimilarityRow, error) {
	rows, err := s.db.Query(ctx, selectSimilarities, userID)
	if err != nil {
		return nil, fmt.Errorf("querying similarities: %w", err)
	}
	defer rows.Close()

	var out []domain.SimilarityRow
	for rows.Next() {
		var r domain.SimilarityRow
		if err := rows.Scan(&r.UserID, &r.RecipeID, &r.Name, &r.Similarity, &r.Exception, &r.PartitionDate); err != nil {
			return nil, fmt.Errorf("scanning similarity: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating similarities: %w", err)
	}
	return out, nil
}

const insertEvent = `
INSERT INTO user_logs (usernum, logtype, timestamp, parameter, ostype, partitiondate)
VALUES ($1, $2, $3, $4, $5, $6)`

// Record implements domain.EventSink.
func (s *Store) Record(ctx context.Context, ev domain.Event) error {
	param, err := json.Marshal(ev.Parameter)
	if err != nil {
		return fmt.Errorf("encoding event parameter: %w", err)
	}
	if _, err := s.db.Exec(ctx, insertEvent,
		ev.UserID, string(ev.Type), ev.Timestamp, string(param), ev.OSType, ev.PartitionDate); err != nil {
		return fmt.Errorf("inserting %s event: %w", ev.Type, err)
	}
	return nil
}
