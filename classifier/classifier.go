// Package classifier assigns an intent category to normalized comment
// text, falling back to a sentiment oracle when no keyword rule matches.
package classifier

import (
	"context"
	"fmt"
	"strings"
)

// Category is the intent assigned to a comment.
type Category string

const (
	CategoryPrice     Category = "price"
	CategoryHours     Category = "hours"
	CategoryHowToBuy  Category = "how_to_buy"
	CategorySentiment Category = "sentiment"
)

// Sentiment labels returned by the oracle.
const (
	SentimentNegative = 0
	SentimentNeutral  = 1
	SentimentPositive = 2
)

// Result is the classification outcome. Sentiment is meaningful only
// when Category is CategorySentiment.
type Result struct {
	Category  Category
	Sentiment int
}

// Oracle scores open-ended comment text with a discrete sentiment label.
type Oracle interface {
	Sentiment(ctx context.Context, text string) (int, error)
}

// Rule pairs a category with its trigger substrings.
type Rule struct {
	Category Category
	Triggers []string
}

// DefaultRules is the ordered rule table. Order is priority: the first
// rule with a matching trigger wins, so a comment asking about both
// price and opening hours classifies as price.
var DefaultRules = []Rule{
	{CategoryPrice, []string{"harga", "hrg", "price", "diskon", "promo"}},
	{CategoryHours, []string{"jam buka", "buka jam", "jam operasional", "buka sampai"}},
	{CategoryHowToBuy, []string{"cara beli", "cara order", "cara pesan", "gimana beli", "checkout"}},
}

// Classifier evaluates the rule table first and delegates to the oracle
// for comments with no lexical signal.
type Classifier struct {
	rules  []Rule
	oracle Oracle
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// New creates a classifier backed by the given sentiment oracle.
func New(oracle Oracle, opts ...Option) *Classifier {
	c := &Classifier{
		rules:  DefaultRules,
		oracle: oracle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the first rule category whose trigger set matches, or
// the oracle's sentiment label when no rule fires. An oracle failure
// fails the classification; the caller skips the comment until the next
// cycle.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	for _, rule := range c.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(text, trigger) {
				return Result{Category: rule.Category}, nil
			}
		}
	}

	label, err := c.oracle.Sentiment(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("sentiment oracle: %w", err)
	}
	return Result{Category: CategorySentiment, Sentiment: label}, nil
}
