package fake

import (
	"strings"
	"sync"
)

// Tokenizer is a deterministic word-segment tokenizer for tests. Each token
// is a run of non-space bytes together with the spaces that follow it, so
// encoding and decoding round-trip text losslessly without any model data.
type Tokenizer struct {
	mu    sync.Mutex
	ids   map[string]int
	vocab []string

	// CountTokensCalls counts CountTokens invocations, letting tests observe
	// estimator memoization and short-circuiting.
	CountTokensCalls int
}

// New creates an empty fake tokenizer.
func New() *Tokenizer {
	return &Tokenizer{ids: make(map[string]int)}
}

func (t *Tokenizer) CountTokens(text string) int {
	t.mu.Lock()
	t.CountTokensCalls++
	t.mu.Unlock()
	return len(segments(text))
}

func (t *Tokenizer) Encode(text string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	segs := segments(text)
	tokens := make([]int, len(segs))
	for i, seg := range segs {
		id, ok := t.ids[seg]
		if !ok {
			id = len(t.vocab)
			t.ids[seg] = id
			t.vocab = append(t.vocab, seg)
		}
		tokens[i] = id
	}
	return tokens
}

func (t *Tokenizer) DecodeBatch(batches [][]int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	texts := make([]string, len(batches))
	for i, batch := range batches {
		var b strings.Builder
		for _, id := range batch {
			if id >= 0 && id < len(t.vocab) {
				b.WriteString(t.vocab[id])
			}
		}
		texts[i] = b.String()
	}
	return texts
}

func segments(text string) []string {
	var segs []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != ' ' {
			i++
			continue
		}
		for i < len(text) && text[i] == ' ' {
			i++
		}
		segs = append(segs, text[start:i])
		start = i
	}
	if start < len(text) {
		segs = append(segs, text[start:])
	}
	return segs
}
