// Package catalog holds the shared, read-mostly reference tables: recipes,
// products and per-user similarity rows. Tables are loaded once and only
// replaced wholesale by Reload; per-session state never lives here.
package catalog

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/ingredient"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

const defaultSimilarityCacheSize = 1024

var _ domain.SimilarityProvider = (*Cache)(nil)

// Cache serves catalog tables from memory. Safe for concurrent use.
type Cache struct {
	loader domain.CatalogLoader
	sims   domain.SimilarityProvider
	log    *logger.Logger

	mu       sync.RWMutex
	loaded   bool
	recipes  []domain.RecipeRecord
	products []domain.Product
	recipeIx map[string]int
	prodIx   map[string]int

	simCache *lru.Cache[int, []domain.SimilarityRow]
}

// Option configures a Cache.
type Option func(*cacheConfig)

type cacheConfig struct {
	simCacheSize int
}

// WithSimilarityCacheSize bounds how many users' similarity rows are kept.
func WithSimilarityCacheSize(n int) Option {
	return func(c *cacheConfig) {
		if n > 0 {
			c.simCacheSize = n
		}
	}
}

// NewCache creates a cache in front of loader and sims. Nothing is loaded
// until the first read or an explicit Reload.
func NewCache(loader domain.CatalogLoader, sims domain.SimilarityProvider, log *logger.Logger, opts ...Option) (*Cache, error) {
	cfg := cacheConfig{simCacheSize: defaultSimilarityCacheSize}
	for _, o := range opts {
		o(&cfg)
	}
	sc, err := lru.New[int, []domain.SimilarityRow](cfg.simCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating similarity cache: %w", err)
	}
	return &Cache{
		loader:   loader,
		sims:     sims,
		log:      log,
		simCache: sc,
	}, nil
}

// Reload fetches both tables concurrently and swaps them in. Ingredient
// text is parsed once here so readers never reparse it. Cached similarity
// rows are dropped since the batch job may have rewritten them.
func (c *Cache) Reload(ctx context.Context) error {
	var (
		recipes  []domain.RecipeRecord
		products []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := c.loader.LoadRecipes(gctx)
		if err != nil {
			return fmt.Errorf("loading recipes: %w", err)
		}
		for i := range rs {
			rs[i].Ingredients = ingredient.Of(&rs[i])
		}
		recipes = rs
		return nil
	})
	g.Go(func() error {
		ps, err := c.loader.LoadProducts(gctx)
		if err != nil {
			return fmt.Errorf("loading products: %w", err)
		}
		products = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	recipeIx := make(map[string]int, len(recipes))
	for i, r := range recipes {
		recipeIx[r.ID] = i
	}
	prodIx := make(map[string]int, len(products))
	for i, p := range products {
		prodIx[p.ID] = i
	}

	c.mu.Lock()
	c.recipes, c.products = recipes, products
	c.recipeIx, c.prodIx = recipeIx, prodIx
	c.loaded = true
	c.mu.Unlock()
	c.simCache.Purge()

	c.log.Info("catalog loaded: %d recipes, %d products", len(recipes), len(products))
	return nil
}

func (c *Cache) ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Reload(ctx)
}

// Recipes returns the recipe table. The slice is shared; do not modify it.
func (c *Cache) Recipes(ctx context.Context) ([]domain.RecipeRecord, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recipes, nil
}

// Products returns the product table. The slice is shared; do not modify it.
func (c *Cache) Products(ctx context.Context) ([]domain.Product, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, nil
}

// Recipe returns one recipe by ID.
func (c *Cache) Recipe(ctx context.Context, id string) (*domain.RecipeRecord, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.recipeIx[id]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	r := c.recipes[i]
	return &r, nil
}

// RecipesByID returns the recipes for ids in order, skipping unknown ones.
func (c *Cache) RecipesByID(ctx context.Context, ids []string) ([]domain.RecipeRecord, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.RecipeRecord, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.recipeIx[id]; ok {
			out = append(out, c.recipes[i])
		}
	}
	return out, nil
}

// Product returns one product by ID.
func (c *Cache) Product(ctx context.Context, id string) (*domain.Product, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.prodIx[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	p := c.products[i]
	return &p, nil
}

// Similarities implements domain.SimilarityProvider, remembering each
// user's rows until the next Reload.
func (c *Cache) Similarities(ctx context.Context, userID int) ([]domain.SimilarityRow, error) {
	if rows, ok := c.simCache.Get(userID); ok {
		return rows, nil
	}
	rows, err := c.sims.Similarities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading similarities for user %d: %w", userID, err)
	}
	c.simCache.Add(userID, rows)
	c.log.Debug("similarity rows cached for user %d: %d", userID, len(rows))
	return rows, nil
}

// Invalidate forgets the cached similarity rows of one user.
func (c *Cache) Invalidate(userID int) {
	c.simCache.Remove(userID)
}
