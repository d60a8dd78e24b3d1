package schema

import "fmt"

// Chunk is a contiguous piece of a document sized to a token budget.
// StartIndex and EndIndex are byte offsets into the original document such
// that document[StartIndex:EndIndex] == Text. Offsets of (0, 0) on a chunk
// that is not at the start of the document mean offset recovery failed and
// the values are degraded, not authoritative.
type Chunk struct {
	Text       string `yaml:"text"`
	StartIndex int    `yaml:"start_index"`
	EndIndex   int    `yaml:"end_index"`
	TokenCount int    `yaml:"token_count"`
}

// Validate checks the structural invariants of a chunk record.
func (c Chunk) Validate() error {
	if c.StartIndex < 0 || c.EndIndex < 0 {
		return fmt.Errorf("chunk offsets must be non-negative, got (%d, %d)", c.StartIndex, c.EndIndex)
	}
	if c.StartIndex > c.EndIndex {
		return fmt.Errorf("chunk start index %d exceeds end index %d", c.StartIndex, c.EndIndex)
	}
	if c.TokenCount < 0 {
		return fmt.Errorf("chunk token count must be non-negative, got %d", c.TokenCount)
	}
	return nil
}

// ToMap returns the chunk as a plain key-value representation.
func (c Chunk) ToMap() map[string]any {
	return map[string]any{
		"text":        c.Text,
		"start_index": c.StartIndex,
		"end_index":   c.EndIndex,
		"token_count": c.TokenCount,
	}
}

// ChunkFromMap restores a chunk from its key-value representation.
func ChunkFromMap(data map[string]any) (Chunk, error) {
	c := Chunk{}
	if v, ok := data["text"]; ok {
		s, ok := v.(string)
		if !ok {
			return Chunk{}, fmt.Errorf("chunk text must be a string, got %T", v)
		}
		c.Text = s
	}
	var err error
	if c.StartIndex, err = intField(data, "start_index"); err != nil {
		return Chunk{}, err
	}
	if c.EndIndex, err = intField(data, "end_index"); err != nil {
		return Chunk{}, err
	}
	if c.TokenCount, err = intField(data, "token_count"); err != nil {
		return Chunk{}, err
	}
	if err := c.Validate(); err != nil {
		return Chunk{}, err
	}
	return c, nil
}

// RecursiveChunk is a chunk finalized by the recursive chunker, annotated
// with the hierarchy depth at which it was emitted.
type RecursiveChunk struct {
	Chunk `yaml:",inline"`
	Level int `yaml:"level"`
}

func (c RecursiveChunk) String() string {
	return fmt.Sprintf("RecursiveChunk(text=%s, start_index=%d, end_index=%d, token_count=%d, level=%d)",
		c.Text, c.StartIndex, c.EndIndex, c.TokenCount, c.Level)
}

func (c RecursiveChunk) ToMap() map[string]any {
	m := c.Chunk.ToMap()
	m["level"] = c.Level
	return m
}

func RecursiveChunkFromMap(data map[string]any) (RecursiveChunk, error) {
	base, err := ChunkFromMap(data)
	if err != nil {
		return RecursiveChunk{}, err
	}
	level := 0
	if _, ok := data["level"]; ok {
		if level, err = intField(data, "level"); err != nil {
			return RecursiveChunk{}, err
		}
	}
	return RecursiveChunk{Chunk: base, Level: level}, nil
}

// Sentence is a single sentence with its position and token count.
type Sentence struct {
	Text       string `yaml:"text"`
	StartIndex int    `yaml:"start_index"`
	EndIndex   int    `yaml:"end_index"`
	TokenCount int    `yaml:"token_count"`
}

func (s Sentence) ToMap() map[string]any {
	return map[string]any{
		"text":        s.Text,
		"start_index": s.StartIndex,
		"end_index":   s.EndIndex,
		"token_count": s.TokenCount,
	}
}

func SentenceFromMap(data map[string]any) (Sentence, error) {
	c, err := ChunkFromMap(data)
	if err != nil {
		return Sentence{}, err
	}
	return Sentence{Text: c.Text, StartIndex: c.StartIndex, EndIndex: c.EndIndex, TokenCount: c.TokenCount}, nil
}

// SentenceChunk is a chunk produced by the sentence chunker, carrying the
// sentences it was packed from.
type SentenceChunk struct {
	Chunk     `yaml:",inline"`
	Sentences []Sentence `yaml:"sentences"`
}

func (c SentenceChunk) ToMap() map[string]any {
	m := c.Chunk.ToMap()
	sentences := make([]map[string]any, len(c.Sentences))
	for i, s := range c.Sentences {
		sentences[i] = s.ToMap()
	}
	m["sentences"] = sentences
	return m
}

func SentenceChunkFromMap(data map[string]any) (SentenceChunk, error) {
	base, err := ChunkFromMap(data)
	if err != nil {
		return SentenceChunk{}, err
	}
	chunk := SentenceChunk{Chunk: base}
	raw, ok := data["sentences"]
	if !ok || raw == nil {
		return chunk, nil
	}
	items, err := anySlice(raw)
	if err != nil {
		return SentenceChunk{}, fmt.Errorf("sentences: %w", err)
	}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return SentenceChunk{}, fmt.Errorf("sentence %d must be a map, got %T", i, item)
		}
		s, err := SentenceFromMap(m)
		if err != nil {
			return SentenceChunk{}, fmt.Errorf("sentence %d: %w", i, err)
		}
		chunk.Sentences = append(chunk.Sentences, s)
	}
	return chunk, nil
}

func intField(data map[string]any, key string) (int, error) {
	v, ok := data[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("field %q must be an integer, got %T", key, v)
	}
}

func anySlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}
