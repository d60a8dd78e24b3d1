package chunker

import (
	"fmt"
	"log/slog"

	"github.com/sevigo/chunker/schema"
	"github.com/sevigo/chunker/tokenizer"
)

// TokenChunker slices text into fixed windows of at most chunkSize tokens
// with an optional token overlap between consecutive windows. It is the
// fixed-window counterpart to the recursive chunker and shares its record
// types.
type TokenChunker struct {
	chunkSize    int
	chunkOverlap int
	tokenizer    tokenizer.Tokenizer
	logger       *slog.Logger
}

var _ Chunker = (*TokenChunker)(nil)

// NewToken creates a token-window chunker over the given tokenizer. The
// overlap must be smaller than the chunk size.
func NewToken(tok tokenizer.Tokenizer, opts ...Option) (*TokenChunker, error) {
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
	if o.chunkOverlap < 0 || o.chunkOverlap >= o.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", ErrInvalidConfig, o.chunkOverlap, o.chunkSize)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &TokenChunker{
		chunkSize:    o.chunkSize,
		chunkOverlap: o.chunkOverlap,
		tokenizer:    tok,
		logger:       o.logger.With("component", "token_chunker"),
	}, nil
}

// Chunk encodes text once, slices the token sequence into overlapping
// windows, and decodes each window back to text. Offsets are recovered by
// searching from the previous chunk's start, since overlapping windows can
// begin before the previous window's end.
func (c *TokenChunker) Chunk(text string) ([]schema.Chunk, error) {
	if text == "" {
		return nil, nil
	}

	tokens := c.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	stride := c.chunkSize - c.chunkOverlap
	var windows [][]int
	windowSizes := make([]int, 0, len(tokens)/stride+1)
	for start := 0; start < len(tokens); start += stride {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, tokens[start:end])
		windowSizes = append(windowSizes, end-start)
		if end == len(tokens) {
			break
		}
	}

	texts := c.tokenizer.DecodeBatch(windows)
	chunks := make([]schema.Chunk, 0, len(texts))
	searchFrom := 0
	for i, chunkText := range texts {
		startIndex, endIndex := 0, 0
		if idx := indexFrom(text, chunkText, searchFrom); idx >= 0 {
			startIndex = idx
			endIndex = idx + len(chunkText)
			searchFrom = startIndex
		} else {
			c.logger.Warn("could not locate window text in document, degrading offsets to zero",
				"chunk_prefix", preview(chunkText))
		}
		chunks = append(chunks, schema.Chunk{
			Text:       chunkText,
			StartIndex: startIndex,
			EndIndex:   endIndex,
			TokenCount: windowSizes[i],
		})
	}
	return chunks, nil
}

// ChunkRecords splits text and returns base chunk records.
func (c *TokenChunker) ChunkRecords(text string) ([]schema.Chunk, error) {
	return c.Chunk(text)
}

// ChunkText splits text and returns the chunk texts only.
func (c *TokenChunker) ChunkText(text string) ([]string, error) {
	chunks, err := c.Chunk(text)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts, nil
}
