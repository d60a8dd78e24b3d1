package chunker

import (
	"log/slog"

	"github.com/sevigo/chunker/schema"
)

// ReturnMode selects the representation Chunk produces.
type ReturnMode string

const (
	// ReturnChunks produces full chunk records with recovered offsets.
	ReturnChunks ReturnMode = "chunks"
	// ReturnTexts skips offset recovery; records carry text only.
	ReturnTexts ReturnMode = "texts"
)

// options holds configuration shared by the chunker constructors.
type options struct {
	chunkSize             int
	minCharactersPerChunk int
	returnMode            ReturnMode
	rules                 *schema.RecursiveRules
	charsPerToken         float64
	estimatorCacheSize    int
	logger                *slog.Logger

	// sentence chunker
	minSentencesPerChunk     int
	minCharactersPerSentence int
	sentenceDelimiters       []string

	// token chunker
	chunkOverlap int
}

func defaultOptions() options {
	return options{
		chunkSize:                512,
		minCharactersPerChunk:    24,
		returnMode:               ReturnChunks,
		minSentencesPerChunk:     1,
		minCharactersPerSentence: 12,
		sentenceDelimiters:       []string{".", "!", "?", "\n"},
	}
}

// Option is a function type for configuring a chunker.
type Option func(*options)

// WithChunkSize sets the maximum token count per chunk.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// WithMinCharactersPerChunk sets the threshold below which fragments are
// folded into their neighbors before packing.
func WithMinCharactersPerChunk(n int) Option {
	return func(o *options) {
		o.minCharactersPerChunk = n
	}
}

// WithReturnMode selects between full chunk records and plain texts.
func WithReturnMode(mode ReturnMode) Option {
	return func(o *options) {
		o.returnMode = mode
	}
}

// WithRules sets the rule hierarchy. Nil keeps the default hierarchy.
func WithRules(rules *schema.RecursiveRules) Option {
	return func(o *options) {
		if rules != nil {
			o.rules = rules
		}
	}
}

// WithEstimationRatio sets the characters-per-token heuristic ratio used by
// the token count estimator.
func WithEstimationRatio(ratio float64) Option {
	return func(o *options) {
		if ratio > 0 {
			o.charsPerToken = ratio
		}
	}
}

// WithEstimatorCacheSize bounds the estimator's memoization cache.
func WithEstimatorCacheSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.estimatorCacheSize = size
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMinSentencesPerChunk sets the minimum sentences packed into one chunk.
func WithMinSentencesPerChunk(n int) Option {
	return func(o *options) {
		o.minSentencesPerChunk = n
	}
}

// WithMinCharactersPerSentence sets the threshold below which a sentence is
// folded into its neighbor.
func WithMinCharactersPerSentence(n int) Option {
	return func(o *options) {
		o.minCharactersPerSentence = n
	}
}

// WithSentenceDelimiters overrides the sentence boundary delimiters.
func WithSentenceDelimiters(delimiters []string) Option {
	return func(o *options) {
		if len(delimiters) > 0 {
			o.sentenceDelimiters = delimiters
		}
	}
}

// WithChunkOverlap sets the token overlap between consecutive fixed windows.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) {
		o.chunkOverlap = overlap
	}
}
