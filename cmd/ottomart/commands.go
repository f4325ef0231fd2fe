package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomart/internal/display"
	"github.com/hammamikhairi/ottomart/internal/pgstore"
	"github.com/hammamikhairi/ottomart/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"rec"},
	Short:   "Recommend recipes for a cart",
	Long: `Build a throwaway cart from product IDs and print recommendations.

Examples:
  ottomart recommend --mode preference
  ottomart recommend -p P001,P002
  ottomart recommend -p P001,P010 -r 1001 --mode remain`,
	RunE: runRecommend,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products, or recipes with --recipes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"list", "ls"},
	Short:   "List catalog recipes, or products with --products",
	RunE:    runCatalog,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the postgres tables and the pgvector index table",
	RunE:  runSchema,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed every catalog recipe into the pgvector index",
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(recommendCmd, searchCmd, catalogCmd, schemaCmd, indexCmd)

	recommendCmd.Flags().StringP("mode", "m", "basic", "basic, remain or preference")
	recommendCmd.Flags().StringSliceP("products", "p", nil, "product IDs to put in the cart")
	recommendCmd.Flags().StringSliceP("recipes", "r", nil, "recipe IDs to put in the recipe cart")
	recommendCmd.Flags().Int("user", 0, "shopper ID (default: shopper.user_id)")

	searchCmd.Flags().Bool("recipes", false, "search recipes instead of products")

	catalogCmd.Flags().Bool("products", false, "list products instead of recipes")

	indexCmd.Flags().Int("batch", 32, "recipes per embedding request")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	rawMode, _ := cmd.Flags().GetString("mode")
	products, _ := cmd.Flags().GetStringSlice("products")
	recipes, _ := cmd.Flags().GetStringSlice("recipes")
	user, _ := cmd.Flags().GetInt("user")
	if user == 0 {
		user = a.cfg.Shopper.UserID
	}

	mode, err := recommend.ParseMode(rawMode)
	if err != nil {
		return err
	}

	s, err := a.engine.StartSession(ctx, user, a.cfg.Shopper.OSType)
	if err != nil {
		return err
	}
	defer func() { _ = a.engine.EndSession(ctx, s.ID) }()

	for _, id := range products {
		if _, err := a.engine.AddProduct(ctx, s.ID, strings.TrimSpace(id)); err != nil {
			return fmt.Errorf("product %s: %w", id, err)
		}
	}
	for _, id := range recipes {
		if _, err := a.engine.AddRecipe(ctx, s.ID, strings.TrimSpace(id)); err != nil {
			return fmt.Errorf("recipe %s: %w", id, err)
		}
	}

	results, err := a.engine.Recommend(ctx, s.ID, mode)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no recommendations")
		return nil
	}
	fmt.Fprintln(out, display.RecommendationTable(results))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	query := strings.Join(args, " ")
	limit := a.cfg.Recommend.SearchLimit
	out := cmd.OutOrStdout()

	if recipes, _ := cmd.Flags().GetBool("recipes"); recipes {
		hits, err := a.engine.SearchRecipes(ctx, query, limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display.RecipeHitTable(hits))
		return nil
	}

	products, err := a.engine.SearchProducts(ctx, query)
	if err != nil {
		return err
	}
	if len(products) > limit {
		products = products[:limit]
	}
	fmt.Fprintln(out, display.ProductTable(products))
	return nil
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if products, _ := cmd.Flags().GetBool("products"); products {
		ps, err := a.cache.Products(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display.ProductTable(ps))
		return nil
	}

	rs, err := a.cache.Recipes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, display.RecipeTable(rs))
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.pool == nil {
		return errNoPostgres
	}
	if err := pgstore.EnsureSchema(ctx, a.pool, a.cfg.Postgres.EmbeddingDims); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.pool == nil {
		return errNoPostgres
	}
	if a.vector == nil {
		return fmt.Errorf("indexing needs an embedder: set embedder.url")
	}

	batch, _ := cmd.Flags().GetInt("batch")
	recipes, err := a.cache.Recipes(ctx)
	if err != nil {
		return err
	}
	n, err := a.vector.IndexRecipes(ctx, recipes, batch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d recipes\n", n)
	return nil
}
