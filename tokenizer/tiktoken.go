package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is named.
const DefaultEncoding = "cl100k_base"

// Tiktoken adapts a tiktoken BPE encoding to the Tokenizer interface.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

var _ Tokenizer = (*Tiktoken)(nil)

// NewTiktoken loads the named encoding; an empty name selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer encoding %q: %w", encoding, err)
	}
	return &Tiktoken{encoding: enc}, nil
}

// NewTiktokenForModel resolves the encoding for a model name.
func NewTiktokenForModel(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for model %q: %w", model, err)
	}
	return &Tiktoken{encoding: enc}, nil
}

func (t *Tiktoken) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

func (t *Tiktoken) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

func (t *Tiktoken) DecodeBatch(batches [][]int) []string {
	texts := make([]string, len(batches))
	for i, batch := range batches {
		texts[i] = t.encoding.Decode(batch)
	}
	return texts
}
