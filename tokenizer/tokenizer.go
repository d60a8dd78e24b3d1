package tokenizer

// Tokenizer is the capability the chunking engine consumes: exact token
// counting plus encode/decode for tokenizer-window splitting. Implementations
// wrap a concrete encoding; the engine never depends on tokenizer internals.
type Tokenizer interface {
	// CountTokens returns the exact number of tokens in text.
	CountTokens(text string) int
	// Encode converts text into a token-id sequence.
	Encode(text string) []int
	// DecodeBatch converts token-id sequences back into text, one string per
	// input sequence, preserving order.
	DecodeBatch(batches [][]int) []string
}
