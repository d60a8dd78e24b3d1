package tokenizer

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Estimator tuning defaults. The characters-per-token ratio is tied to the
// tokenizer family and is configurable rather than a hard-coded truth.
const (
	DefaultCharsPerToken = 6.5
	DefaultCacheSize     = 4096
)

// Estimator is a two-tier, memoized token counter. A cheap characters-per-token
// heuristic classifies way-over-budget text without touching the tokenizer;
// text near or under budget gets an exact count. Results are cached per input
// text. The cache is owned by the estimator and the estimator is bound to one
// chunk size, so entries from differing budgets can never mix.
type Estimator struct {
	tokenizer     Tokenizer
	chunkSize     int
	charsPerToken float64
	cache         *lru.Cache[string, int]
}

// NewEstimator builds an estimator for the given budget. Non-positive
// charsPerToken or cacheSize select the defaults.
func NewEstimator(tokenizer Tokenizer, chunkSize int, charsPerToken float64, cacheSize int) (*Estimator, error) {
	if tokenizer == nil {
		return nil, errors.New("tokenizer cannot be nil")
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, int](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create estimator cache: %w", err)
	}
	return &Estimator{
		tokenizer:     tokenizer,
		chunkSize:     chunkSize,
		charsPerToken: charsPerToken,
		cache:         cache,
	}, nil
}

// Estimate returns the token count for text. Counts above the budget are
// reported as chunkSize+1: callers only need the budget-exceeded
// classification, not exactness, above the boundary.
func (e *Estimator) Estimate(text string) int {
	if count, ok := e.cache.Get(text); ok {
		return count
	}
	count := e.count(text)
	e.cache.Add(text, count)
	return count
}

func (e *Estimator) count(text string) int {
	estimate := int(float64(len(text)) / e.charsPerToken)
	if estimate < 1 {
		estimate = 1
	}
	if estimate > e.chunkSize {
		return e.chunkSize + 1
	}
	return e.tokenizer.CountTokens(text)
}
