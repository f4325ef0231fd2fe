package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomart/internal/conversation"
	"github.com/hammamikhairi/ottomart/internal/display"
	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/engine"
	"github.com/hammamikhairi/ottomart/internal/logger"
	"github.com/hammamikhairi/ottomart/internal/recommend"
	"github.com/hammamikhairi/ottomart/internal/storage"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive cart shell (default)",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	reaper := storage.NewReaper(a.store, a.log,
		storage.WithSweepInterval(a.cfg.Session.SweepInterval),
		storage.WithIdleTimeout(a.cfg.Session.IdleTimeout),
	)
	go reaper.Run(ctx)

	ui := display.NewUI(a.store)
	sh := &cliApp{
		app:      a,
		engine:   a.engine,
		parser:   conversation.NewKeywordParser(a.log),
		notifier: conversation.NewCLINotifier(a.log, ui.Printf),
		log:      a.log,
		ui:       ui,
	}

	fmt.Println(display.RenderBanner("cart-aware recipes"))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		sh.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		a.log.Error("display: %v", err)
	}
	cancel()
	return nil
}

type cliApp struct {
	app       *app
	engine    *engine.Engine
	parser    domain.IntentParser
	notifier  domain.Notifier
	log       *logger.Logger
	ui        *display.UI
	sessionID string
}

func (a *cliApp) say(ctx context.Context, text string) {
	_ = a.notifier.Notify(ctx, text)
}

// fail reports an operation error in shopper terms.
func (a *cliApp) fail(ctx context.Context, what string, err error) {
	a.log.Warn("%s: %v", what, err)
	var msg string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		msg = what + ": not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		msg = what + ": already there"
	case errors.Is(err, domain.ErrEmptyCart):
		msg = "the cart is empty"
	case errors.Is(err, domain.ErrInvalidMode):
		msg = "mode must be basic, remain or preference"
	case errors.Is(err, domain.ErrSessionNotActive):
		msg = "this cart is closed; starting a new one"
		a.newSession(ctx)
	default:
		msg = fmt.Sprintf("%s: %v", what, err)
	}
	_ = a.notifier.NotifyUrgent(ctx, msg)
}

func (a *cliApp) newSession(ctx context.Context) bool {
	s, err := a.engine.StartSession(ctx, a.app.cfg.Shopper.UserID, a.app.cfg.Shopper.OSType)
	if err != nil {
		a.log.Error("starting session: %v", err)
		_ = a.notifier.NotifyUrgent(ctx, "could not open a cart: "+err.Error())
		return false
	}
	a.sessionID = s.ID
	return true
}

func (a *cliApp) run(ctx context.Context) {
	if !a.newSession(ctx) {
		return
	}
	a.home(ctx)

	uiCh := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-uiCh:
			if !ok {
				return
			}
			input = v
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s %v", intent.Type, intent.Args)
		if quit := a.handleIntent(ctx, intent); quit {
			return
		}
	}
}

// handleIntent runs one command. It reports whether the shell should exit.
func (a *cliApp) handleIntent(ctx context.Context, in *domain.Intent) bool {
	switch in.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListRecipes:
		a.listRecipes(ctx)
	case domain.IntentSearchProducts:
		a.searchProducts(ctx, in.Arg(0))
	case domain.IntentSearchRecipes:
		a.searchRecipes(ctx, in.Arg(0))
	case domain.IntentAddProduct:
		a.addProduct(ctx, in.Arg(0))
	case domain.IntentRemoveItem:
		if err := a.engine.RemoveItem(ctx, a.sessionID, in.Arg(0)); err != nil {
			a.fail(ctx, "remove "+in.Arg(0), err)
			return false
		}
		a.say(ctx, "removed "+in.Arg(0))
	case domain.IntentSetQuantity:
		a.setQuantity(ctx, in.Arg(0), in.Arg(1))
	case domain.IntentShowCart:
		a.showCart(ctx)
	case domain.IntentClearCart:
		if err := a.engine.ClearCart(ctx, a.sessionID); err != nil {
			a.fail(ctx, "clear", err)
			return false
		}
		a.say(ctx, "cart and recipe cart emptied")
	case domain.IntentAddRecipe:
		a.addRecipe(ctx, in.Arg(0))
	case domain.IntentRemoveRecipe:
		a.removeRecipe(ctx, in.Arg(0))
	case domain.IntentRecommend:
		a.recommend(ctx, in.Arg(0))
	case domain.IntentRemaining:
		a.remaining(ctx)
	case domain.IntentServingPrice:
		a.servingPrice(ctx, in.Arg(0))
	case domain.IntentFillRecipe:
		a.fill(ctx, in.Arg(0))
	case domain.IntentPurchase:
		a.purchase(ctx)
	case domain.IntentQuit:
		if err := a.engine.EndSession(ctx, a.sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotActive) {
			a.log.Warn("closing session: %v", err)
		}
		a.say(ctx, "bye")
		return true
	default:
		a.ui.PrintHint(fmt.Sprintf("unknown command %q, type 'help'", in.Arg(0)))
	}
	return false
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Commands")
	for _, line := range conversation.Usage() {
		a.ui.PrintHint(line)
	}
}

func (a *cliApp) home(ctx context.Context) {
	picks, err := a.engine.Home(ctx, a.sessionID)
	if err != nil {
		a.fail(ctx, "recommendations", err)
		return
	}
	if len(picks) == 0 {
		return
	}
	a.say(ctx, fmt.Sprintf("How about %s today?", picks[0].Name))
	a.ui.PrintBlock(display.RecommendationTable(picks))
}

func (a *cliApp) listRecipes(ctx context.Context) {
	recipes, err := a.app.cache.Recipes(ctx)
	if err != nil {
		a.fail(ctx, "recipes", err)
		return
	}
	a.ui.PrintHeader(fmt.Sprintf("Recipes (%d)", len(recipes)))
	a.ui.PrintBlock(display.RecipeTable(recipes))
}

func (a *cliApp) searchProducts(ctx context.Context, q string) {
	products, err := a.engine.SearchProducts(ctx, q)
	if err != nil {
		a.fail(ctx, "search", err)
		return
	}
	if len(products) == 0 {
		a.ui.PrintHint("no products for " + q)
		return
	}
	if n := a.app.cfg.Recommend.SearchLimit; len(products) > n {
		products = products[:n]
	}
	a.ui.PrintBlock(display.ProductTable(products))
}

func (a *cliApp) searchRecipes(ctx context.Context, q string) {
	hits, err := a.engine.SearchRecipes(ctx, q, a.app.cfg.Recommend.SearchLimit)
	if err != nil {
		a.fail(ctx, "find", err)
		return
	}
	if len(hits) == 0 {
		a.ui.PrintHint("no recipes for " + q)
		return
	}
	a.ui.PrintBlock(display.RecipeHitTable(hits))
}

func (a *cliApp) addProduct(ctx context.Context, id string) {
	entry, err := a.engine.AddProduct(ctx, a.sessionID, id)
	if err != nil {
		a.fail(ctx, "add "+id, err)
		return
	}
	a.say(ctx, fmt.Sprintf("added %s (x%d)", entry.DisplayName, entry.Quantity))
	a.ui.PrintHint("key: " + entry.Key)
}

func (a *cliApp) setQuantity(ctx context.Context, key, raw string) {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		_ = a.notifier.NotifyUrgent(ctx, "quantity must be a number")
		return
	}
	if err := a.engine.SetQuantity(ctx, a.sessionID, key, qty); err != nil {
		a.fail(ctx, "qty "+key, err)
		return
	}
	if qty <= 0 {
		a.say(ctx, "removed "+key)
		return
	}
	a.say(ctx, fmt.Sprintf("%s x%d", key, qty))
}

func (a *cliApp) showCart(ctx context.Context) {
	summary, err := a.engine.Cart(ctx, a.sessionID)
	if err != nil {
		a.fail(ctx, "cart", err)
		return
	}
	if len(summary.Entries) == 0 && len(summary.Recipes) == 0 {
		a.ui.PrintHint("the cart is empty")
		return
	}
	a.ui.PrintHeader(fmt.Sprintf("Cart (%d items)", summary.Totals.Items))
	a.ui.PrintBlock(display.CartTable(summary))
}

func (a *cliApp) addRecipe(ctx context.Context, id string) {
	r, err := a.engine.AddRecipe(ctx, a.sessionID, id)
	if err != nil {
		a.fail(ctx, "recipe "+id, err)
		return
	}
	a.say(ctx, "recipe added: "+r.Name)

	missing, err := a.engine.MissingIngredients(ctx, a.sessionID, id)
	if err == nil && len(missing) > 0 {
		a.ui.PrintHint("missing: " + display.IngredientList(missing))
		a.ui.PrintHint("'fill " + id + "' adds them to the cart")
	}
}

func (a *cliApp) removeRecipe(ctx context.Context, id string) {
	removed, err := a.engine.RemoveRecipe(ctx, a.sessionID, id)
	if err != nil {
		a.fail(ctx, "unrecipe "+id, err)
		return
	}
	a.say(ctx, "recipe removed")
	if len(removed) > 0 {
		a.ui.PrintHint("also removed: " + strings.Join(removed, ", "))
	}
}

func (a *cliApp) recommend(ctx context.Context, rawMode string) {
	if rawMode == "" {
		rawMode = "basic"
	}
	mode, err := recommend.ParseMode(rawMode)
	if err != nil {
		a.fail(ctx, "rec", err)
		return
	}
	results, err := a.engine.Recommend(ctx, a.sessionID, mode)
	if err != nil {
		a.fail(ctx, "rec", err)
		return
	}
	if len(results) == 0 {
		a.ui.PrintHint("nothing to recommend yet; add products or recipes first")
		return
	}
	a.ui.PrintHeader("Recommended (" + mode.String() + ")")
	a.ui.PrintBlock(display.RecommendationTable(results))
}

func (a *cliApp) remaining(ctx context.Context) {
	rem, err := a.engine.Remaining(ctx, a.sessionID)
	if err != nil {
		a.fail(ctx, "remain", err)
		return
	}
	if rem.Len() == 0 {
		a.ui.PrintHint("nothing left over")
		return
	}
	a.ui.PrintHeader("Left after cooking")
	a.ui.PrintBlock(display.RemainingTable(rem.Entries()))
}

func (a *cliApp) servingPrice(ctx context.Context, id string) {
	price, err := a.engine.ServingPrice(ctx, a.sessionID, id)
	if err != nil {
		a.fail(ctx, "price "+id, err)
		return
	}
	a.say(ctx, fmt.Sprintf("about %s per serving", display.Won(price)))
}

func (a *cliApp) fill(ctx context.Context, id string) {
	added, err := a.engine.AddMissingIngredients(ctx, a.sessionID, id)
	if err != nil {
		a.fail(ctx, "fill "+id, err)
		return
	}
	if len(added) == 0 {
		a.say(ctx, "everything for this recipe is already in the cart")
		return
	}
	a.say(ctx, "added: "+strings.Join(added, ", "))
}

func (a *cliApp) purchase(ctx context.Context) {
	receipt, err := a.engine.Purchase(ctx, a.sessionID)
	if err != nil {
		a.fail(ctx, "buy", err)
		return
	}
	a.ui.PrintBlock(display.ReceiptTable(receipt))
	a.say(ctx, "thanks for shopping! a fresh cart is ready")
	a.newSession(ctx)
}
