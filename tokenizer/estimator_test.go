package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chunker/tokenizer"
	"github.com/sevigo/chunker/tokenizer/fake"
)

func TestNewEstimator_Validation(t *testing.T) {
	_, err := tokenizer.NewEstimator(nil, 10, 0, 0)
	require.Error(t, err)

	_, err = tokenizer.NewEstimator(fake.New(), 0, 0, 0)
	require.Error(t, err)
}

func TestEstimator_OverBudgetShortCircuit(t *testing.T) {
	tok := fake.New()
	est, err := tokenizer.NewEstimator(tok, 10, 0, 0)
	require.NoError(t, err)

	// 200 chars / 6.5 is well past the budget of 10; the real tokenizer must
	// not be consulted.
	text := strings.Repeat("word ", 40)
	assert.Equal(t, 11, est.Estimate(text))
	assert.Equal(t, 0, tok.CountTokensCalls)
}

func TestEstimator_UnderBudgetUsesExactCount(t *testing.T) {
	tok := fake.New()
	est, err := tokenizer.NewEstimator(tok, 10, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, est.Estimate("Hi there."))
	assert.Equal(t, 1, tok.CountTokensCalls)
}

func TestEstimator_MemoizesByText(t *testing.T) {
	tok := fake.New()
	est, err := tokenizer.NewEstimator(tok, 10, 0, 0)
	require.NoError(t, err)

	first := est.Estimate("Hi there.")
	second := est.Estimate("Hi there.")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, tok.CountTokensCalls, "second call must be served from the cache")
}

func TestEstimator_CustomRatio(t *testing.T) {
	tok := fake.New()
	// With one char per token any text longer than the budget short-circuits.
	est, err := tokenizer.NewEstimator(tok, 3, 1.0, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, est.Estimate("abcdef"))
	assert.Equal(t, 0, tok.CountTokensCalls)
}

func TestEstimator_EmptyText(t *testing.T) {
	est, err := tokenizer.NewEstimator(fake.New(), 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, est.Estimate(""))
}
