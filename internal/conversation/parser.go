// Package conversation turns shell input into intents and prints
// notifications back to the shopper.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches shell input to intents using command words.
// Capture groups of a rule become the intent's arguments.
type KeywordParser struct {
	log   *logger.Logger
	rules []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.rules = []patternRule{
		{regexp.MustCompile(`(?i)^(?:list|recipes|ls)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(?:search|s)\s+(.+)$`), domain.IntentSearchProducts},
		{regexp.MustCompile(`(?i)^(?:find|f)\s+(.+)$`), domain.IntentSearchRecipes},
		{regexp.MustCompile(`(?i)^(?:add|a)\s+(\S+)$`), domain.IntentAddProduct},
		{regexp.MustCompile(`(?i)^(?:rm|remove|del)\s+(\S+)$`), domain.IntentRemoveItem},
		{regexp.MustCompile(`(?i)^(?:qty|quantity)\s+(\S+)\s+(-?\d+)$`), domain.IntentSetQuantity},
		{regexp.MustCompile(`(?i)^(?:cart|c)$`), domain.IntentShowCart},
		{regexp.MustCompile(`(?i)^(?:clear|empty)$`), domain.IntentClearCart},
		{regexp.MustCompile(`(?i)^(?:recipe|pick)\s+(\S+)$`), domain.IntentAddRecipe},
		{regexp.MustCompile(`(?i)^(?:unrecipe|unpick)\s+(\S+)$`), domain.IntentRemoveRecipe},
		{regexp.MustCompile(`(?i)^(?:rec|recommend)(?:\s+(\S+))?$`), domain.IntentRecommend},
		{regexp.MustCompile(`(?i)^(?:remain|leftovers?)$`), domain.IntentRemaining},
		{regexp.MustCompile(`(?i)^price\s+(\S+)$`), domain.IntentServingPrice},
		{regexp.MustCompile(`(?i)^fill\s+(\S+)$`), domain.IntentFillRecipe},
		{regexp.MustCompile(`(?i)^(?:buy|checkout|purchase)$`), domain.IntentPurchase},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), domain.IntentQuit},
	}
	return p
}

// Parse converts shell input into an intent. Input that matches no rule,
// including a known command with missing arguments, is IntentUnknown with
// the raw input as its only argument.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.rules {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		var args []string
		for _, g := range m[1:] {
			if g != "" {
				args = append(args, g)
			}
		}
		p.log.Debug("matched intent: %s %v", rule.intent, args)
		return &domain.Intent{Type: rule.intent, Args: args}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Args: []string{trimmed}}, nil
}

// Usage lists the shell commands, one per line.
func Usage() []string {
	return []string{
		"list                 show the recipe catalog",
		"search <word>        search products",
		"find <text>          search recipes",
		"add <productID>      add a product to the cart",
		"rm <key>             remove a cart line",
		"qty <key> <n>        set a cart line's quantity",
		"cart                 show the cart",
		"clear                empty the cart and recipe cart",
		"recipe <id>          add a recipe to the recipe cart",
		"unrecipe <id>        remove a recipe and its auto-added products",
		"rec [basic|remain|preference]  recommend recipes",
		"remain               show leftovers after the recipe cart",
		"price <id>           per-serving price of a recipe",
		"fill <id>            add products for missing ingredients",
		"buy                  check out",
		"help                 show this list",
		"quit                 leave",
	}
}
