package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/chunker/chunker"
	logger "github.com/sevigo/chunker/chunker/testing"
	"github.com/sevigo/chunker/tokenizer/fake"
)

func newToken(t *testing.T, opts ...chunker.Option) *chunker.TokenChunker {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	c, err := chunker.NewToken(fake.New(), append([]chunker.Option{chunker.WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewToken_ConfigValidation(t *testing.T) {
	_, err := chunker.NewToken(nil)
	require.ErrorIs(t, err, chunker.ErrInvalidConfig)

	_, err = chunker.NewToken(fake.New(), chunker.WithChunkSize(0))
	require.ErrorIs(t, err, chunker.ErrInvalidConfig)

	_, err = chunker.NewToken(fake.New(), chunker.WithChunkSize(4), chunker.WithChunkOverlap(4))
	require.ErrorIs(t, err, chunker.ErrInvalidConfig)

	_, err = chunker.NewToken(fake.New(), chunker.WithChunkOverlap(-1))
	require.ErrorIs(t, err, chunker.ErrInvalidConfig)
}

func TestTokenChunker_FixedWindows(t *testing.T) {
	text := "one two three four five six"
	c := newToken(t, chunker.WithChunkSize(2))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	var joined strings.Builder
	for _, chunk := range chunks {
		assert.Equal(t, 2, chunk.TokenCount)
		assert.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
		joined.WriteString(chunk.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestTokenChunker_Overlap(t *testing.T) {
	text := "one two three four five six"
	c := newToken(t, chunker.WithChunkSize(2), chunker.WithChunkOverlap(1))

	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	lastStart := -1
	for _, chunk := range chunks {
		assert.LessOrEqual(t, chunk.TokenCount, 2)
		assert.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
		assert.Greater(t, chunk.StartIndex, lastStart)
		lastStart = chunk.StartIndex
	}

	// Consecutive windows share one token.
	assert.True(t, chunks[1].StartIndex < chunks[0].EndIndex)
}

func TestTokenChunker_ShortInputIsOneChunk(t *testing.T) {
	c := newToken(t, chunker.WithChunkSize(100))
	chunks, err := c.Chunk("just a few words")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words", chunks[0].Text)
	assert.Equal(t, 4, chunks[0].TokenCount)
}

func TestTokenChunker_EmptyInput(t *testing.T) {
	c := newToken(t)
	chunks, err := c.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
