package chunker

import (
	"strings"

	"github.com/sevigo/chunker/schema"
)

// Chunker turns a document into budget-sized chunks. Strategies with richer
// native record types additionally expose them through their own Chunk
// methods; this interface is the common denominator document pipelines use.
type Chunker interface {
	// ChunkRecords splits text into chunk records with recovered offsets.
	ChunkRecords(text string) ([]schema.Chunk, error)
	// ChunkText splits text and returns the chunk texts only.
	ChunkText(text string) ([]string, error)
}

// indexFrom returns the byte offset of the first occurrence of sub in text
// at or after from, or -1.
func indexFrom(text, sub string, from int) int {
	if from > len(text) {
		from = len(text)
	}
	idx := strings.Index(text[from:], sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// preview truncates text for log output.
func preview(text string) string {
	const max = 32
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
