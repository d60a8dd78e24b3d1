package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chunker/chunker"
	logger "github.com/sevigo/chunker/chunker/testing"
	"github.com/sevigo/chunker/schema"
	"github.com/sevigo/chunker/tokenizer/fake"
)

func newRecursive(t *testing.T, opts ...chunker.Option) *chunker.RecursiveChunker {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	c, err := chunker.NewRecursive(fake.New(), append([]chunker.Option{chunker.WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRecursive_ConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []chunker.Option
	}{
		{"zero chunk size", []chunker.Option{chunker.WithChunkSize(0)}},
		{"negative chunk size", []chunker.Option{chunker.WithChunkSize(-3)}},
		{"zero min characters", []chunker.Option{chunker.WithMinCharactersPerChunk(0)}},
		{"unknown return mode", []chunker.Option{chunker.WithReturnMode("records")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chunker.NewRecursive(fake.New(), tt.opts...)
			require.ErrorIs(t, err, chunker.ErrInvalidConfig)
		})
	}

	t.Run("nil tokenizer", func(t *testing.T) {
		_, err := chunker.NewRecursive(nil)
		require.ErrorIs(t, err, chunker.ErrInvalidConfig)
	})
}

func TestRecursiveChunker_EmptyInput(t *testing.T) {
	c := newRecursive(t)
	chunks, err := c.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRecursiveChunker_SplitsAtSentenceBoundary(t *testing.T) {
	text := "Hi there. This is a test."
	c := newRecursive(t, chunker.WithChunkSize(5), chunker.WithMinCharactersPerChunk(1))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.Equal(t, "Hi there.", chunks[0].Text)
	for _, chunk := range chunks {
		assert.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
		assert.LessOrEqual(t, chunk.TokenCount, 5)
	}

	var joined strings.Builder
	for _, chunk := range chunks {
		joined.WriteString(chunk.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestRecursiveChunker_WordLevelPacking(t *testing.T) {
	text := "one two three four five six seven."
	c := newRecursive(t, chunker.WithChunkSize(5), chunker.WithMinCharactersPerChunk(1))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	lastStart := -1
	for _, chunk := range chunks {
		assert.LessOrEqual(t, chunk.TokenCount, 5)
		assert.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
		assert.GreaterOrEqual(t, chunk.StartIndex, lastStart)
		lastStart = chunk.StartIndex
	}

	// Word-level joins reintroduce single spaces; ignoring those, nothing is
	// dropped or duplicated.
	joined := strings.Join(textsOf(chunks), " ")
	assert.Equal(t, strings.ReplaceAll(text, " ", ""), strings.ReplaceAll(joined, " ", ""))
}

func TestRecursiveChunker_TerminalLevelKeepsUnsplittableSpan(t *testing.T) {
	text := strings.Repeat("a", 30)
	c := newRecursive(t, chunker.WithChunkSize(2), chunker.WithMinCharactersPerChunk(1))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartIndex)
	assert.Equal(t, len(text), chunks[0].EndIndex)
}

func TestRecursiveChunker_ChunkText(t *testing.T) {
	text := "Hi there. This is a test."
	c := newRecursive(t, chunker.WithChunkSize(5), chunker.WithMinCharactersPerChunk(1))

	texts, err := c.ChunkText(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Equal(t, "Hi there.", texts[0])
	assert.Equal(t, text, strings.Join(texts, ""))
}

func TestRecursiveChunker_ReturnTextsSkipsOffsets(t *testing.T) {
	c := newRecursive(t,
		chunker.WithChunkSize(5),
		chunker.WithMinCharactersPerChunk(1),
		chunker.WithReturnMode(chunker.ReturnTexts),
	)

	chunks, err := c.Chunk("Hi there. This is a test.")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.Zero(t, chunk.StartIndex)
		assert.Zero(t, chunk.EndIndex)
		assert.NotEmpty(t, chunk.Text)
	}
}

func TestRecursiveChunker_CustomRules(t *testing.T) {
	level, err := schema.NewDelimiterLevel([]string{","}, schema.IncludePrev)
	require.NoError(t, err)
	rules, err := schema.NewRules(level, schema.NewTokenLevel())
	require.NoError(t, err)

	text := "alpha,beta,gamma"
	c := newRecursive(t,
		chunker.WithChunkSize(2),
		chunker.WithMinCharactersPerChunk(1),
		chunker.WithRules(rules),
	)

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
	}
	var joined strings.Builder
	for _, chunk := range chunks {
		joined.WriteString(chunk.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestRecursiveChunker_SingleBareRuleIsNotIndexable(t *testing.T) {
	rules, err := schema.NewSingleRule(schema.NewWhitespaceLevel())
	require.NoError(t, err)

	c := newRecursive(t, chunker.WithRules(rules))
	_, err = c.Chunk("some text")
	require.ErrorIs(t, err, schema.ErrNotIndexable)
}

func textsOf(chunks []schema.RecursiveChunk) []string {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts
}
