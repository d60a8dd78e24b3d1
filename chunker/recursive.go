package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/chunker/schema"
	"github.com/sevigo/chunker/tokenizer"
)

// RecursiveChunker splits text by an ordered hierarchy of delimiter rules,
// greedily packs adjacent fragments up to a token budget, and recurses into
// the next, finer level for any packed fragment still over budget. Emitted
// chunks carry their byte offsets in the original document.
type RecursiveChunker struct {
	rules                 *schema.RecursiveRules
	chunkSize             int
	minCharactersPerChunk int
	returnMode            ReturnMode
	tokenizer             tokenizer.Tokenizer
	estimator             *tokenizer.Estimator
	logger                *slog.Logger
}

var _ Chunker = (*RecursiveChunker)(nil)

// NewRecursive creates a recursive chunker over the given tokenizer. Without
// WithRules it uses the default five-level hierarchy. Configuration errors
// are all reported here; Chunk never fails for configuration reasons.
func NewRecursive(tok tokenizer.Tokenizer, opts ...Option) (*RecursiveChunker, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: tokenizer cannot be nil", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, o.chunkSize)
	}
	if o.minCharactersPerChunk <= 0 {
		return nil, fmt.Errorf("%w: min characters per chunk must be positive, got %d", ErrInvalidConfig, o.minCharactersPerChunk)
	}
	switch o.returnMode {
	case ReturnChunks, ReturnTexts:
	default:
		return nil, fmt.Errorf("%w: unknown return mode %q", ErrInvalidConfig, o.returnMode)
	}

	rules := o.rules
	if rules == nil {
		var err error
		rules, err = schema.NewRules()
		if err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	estimator, err := tokenizer.NewEstimator(tok, o.chunkSize, o.charsPerToken, o.estimatorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &RecursiveChunker{
		rules:                 rules,
		chunkSize:             o.chunkSize,
		minCharactersPerChunk: o.minCharactersPerChunk,
		returnMode:            o.returnMode,
		tokenizer:             tok,
		estimator:             estimator,
		logger:                o.logger.With("component", "recursive_chunker"),
	}, nil
}

// Chunk recursively splits text into budget-sized chunks. In ReturnChunks
// mode each record carries recovered offsets; in ReturnTexts mode offset
// recovery is skipped and records carry text and token counts only.
func (c *RecursiveChunker) Chunk(text string) ([]schema.RecursiveChunk, error) {
	return c.chunkRecursive(text, 0, text, c.returnMode == ReturnChunks)
}

// ChunkText splits text and returns the chunk texts only.
func (c *RecursiveChunker) ChunkText(text string) ([]string, error) {
	chunks, err := c.chunkRecursive(text, 0, text, false)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts, nil
}

// ChunkRecords splits text and returns base chunk records.
func (c *RecursiveChunker) ChunkRecords(text string) ([]schema.Chunk, error) {
	chunks, err := c.Chunk(text)
	if err != nil {
		return nil, err
	}
	records := make([]schema.Chunk, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk.Chunk
	}
	return records, nil
}

func (c *RecursiveChunker) chunkRecursive(text string, level int, fullText string, withOffsets bool) ([]schema.RecursiveChunk, error) {
	if text == "" {
		return nil, nil
	}

	// Past the last level the whole span is one chunk, positioned against the
	// full original document.
	if level >= c.rules.Len() {
		chunk := c.makeChunk(text, c.estimator.Estimate(text), level, fullText, 0, withOffsets)
		return []schema.RecursiveChunk{chunk}, nil
	}

	rule, err := c.rules.At(level)
	if err != nil {
		return nil, err
	}

	splits := c.splitText(text, rule)
	tokenCounts := make([]int, len(splits))
	for i, split := range splits {
		tokenCounts[i] = c.estimator.Estimate(split)
	}

	// Tokenizer windows are already at or under budget; everything else gets
	// packed, with whitespace-join semantics for the word level.
	tokenLevel := len(rule.Delimiters) == 0 && !rule.Whitespace
	var merged []string
	var mergedCounts []int
	switch {
	case tokenLevel:
		merged, mergedCounts = splits, tokenCounts
	case rule.Whitespace:
		merged, mergedCounts, err = mergeSplits(splits, tokenCounts, c.chunkSize, true)
	default:
		merged, mergedCounts, err = mergeSplits(splits, tokenCounts, c.chunkSize, false)
	}
	if err != nil {
		return nil, err
	}

	// Tokenizer windows are contiguous and order-preserving, so their own
	// concatenation is a smaller search space than the full document.
	searchText := fullText
	if tokenLevel {
		searchText = strings.Join(merged, "")
	}

	var chunks []schema.RecursiveChunk
	lastEndIndex := 0
	for i, span := range merged {
		if mergedCounts[i] > c.chunkSize {
			sub, err := c.chunkRecursive(span, level+1, fullText, withOffsets)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, sub...)
			continue
		}
		if len(chunks) > 0 {
			lastEndIndex = chunks[len(chunks)-1].EndIndex
		}
		chunks = append(chunks, c.makeChunk(span, mergedCounts[i], level, searchText, lastEndIndex, withOffsets))
	}
	return chunks, nil
}

// makeChunk finalizes one chunk, recovering its offsets by searching for the
// exact chunk text at or after the previous chunk's end. A failed search
// degrades both offsets to zero with a warning; offsets are best-effort
// metadata, and (0, 0) must not be read as "chunk precedes document start".
func (c *RecursiveChunker) makeChunk(text string, tokenCount, level int, searchText string, searchFrom int, withOffsets bool) schema.RecursiveChunk {
	startIndex, endIndex := 0, 0
	if withOffsets {
		if idx := indexFrom(searchText, text, searchFrom); idx >= 0 {
			startIndex = idx
			endIndex = startIndex + len(text)
		} else {
			c.logger.Warn("could not locate chunk text in document, degrading offsets to zero",
				"chunk_prefix", preview(text),
				"search_from", searchFrom,
				"level", level)
		}
	}
	return schema.RecursiveChunk{
		Chunk: schema.Chunk{
			Text:       text,
			StartIndex: startIndex,
			EndIndex:   endIndex,
			TokenCount: tokenCount,
		},
		Level: level,
	}
}
