package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/chunker/schema"
	"github.com/sevigo/chunker/tokenizer"
)

// SentenceChunker groups whole sentences into budget-sized chunks. Sentences
// are found with attach-to-previous delimiter splitting, so concatenating the
// sentences reproduces the input and offsets are tracked positionally rather
// than recovered by search.
type SentenceChunker struct {
	chunkSize                int
	minSentencesPerChunk     int
	minCharactersPerSentence int
	delimiters               []string
	estimator                *tokenizer.Estimator
	logger                   *slog.Logger
}

var _ Chunker = (*SentenceChunker)(nil)

// NewSentence creates a sentence chunker over the given tokenizer.
func NewSentence(tok tokenizer.Tokenizer, opts ...Option) (*SentenceChunker, error) {
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
	if o.minSentencesPerChunk <= 0 {
		return nil, fmt.Errorf("%w: min sentences per chunk must be positive, got %d", ErrInvalidConfig, o.minSentencesPerChunk)
	}
	if o.minCharactersPerSentence <= 0 {
		return nil, fmt.Errorf("%w: min characters per sentence must be positive, got %d", ErrInvalidConfig, o.minCharactersPerSentence)
	}
	level := schema.RecursiveLevel{Delimiters: o.sentenceDelimiters, IncludeDelim: schema.IncludePrev}
	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("%w: sentence delimiters: %v", ErrInvalidConfig, err)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	estimator, err := tokenizer.NewEstimator(tok, o.chunkSize, o.charsPerToken, o.estimatorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &SentenceChunker{
		chunkSize:                o.chunkSize,
		minSentencesPerChunk:     o.minSentencesPerChunk,
		minCharactersPerSentence: o.minCharactersPerSentence,
		delimiters:               o.sentenceDelimiters,
		estimator:                estimator,
		logger:                   o.logger.With("component", "sentence_chunker"),
	}, nil
}

// Chunk splits text into sentence chunks, each carrying its member sentences.
func (c *SentenceChunker) Chunk(text string) ([]schema.SentenceChunk, error) {
	if text == "" {
		return nil, nil
	}

	sentences := c.prepareSentences(text)
	var chunks []schema.SentenceChunk

	group := make([]schema.Sentence, 0, 8)
	groupTokens := 0
	flush := func() {
		if len(group) == 0 {
			return
		}
		chunks = append(chunks, c.makeChunk(text, group))
		group = make([]schema.Sentence, 0, 8)
		groupTokens = 0
	}
	for _, sentence := range sentences {
		over := groupTokens+sentence.TokenCount > c.chunkSize
		if over && len(group) >= c.minSentencesPerChunk {
			flush()
		}
		group = append(group, sentence)
		groupTokens += sentence.TokenCount
	}
	flush()
	return chunks, nil
}

// ChunkRecords splits text and returns base chunk records.
func (c *SentenceChunker) ChunkRecords(text string) ([]schema.Chunk, error) {
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

// ChunkText splits text and returns the chunk texts only.
func (c *SentenceChunker) ChunkText(text string) ([]string, error) {
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

// prepareSentences splits text into sentences, folds too-short ones into
// their neighbors, and assigns positional offsets and token counts. The
// splitter keeps delimiters attached to the preceding sentence, so the
// sentences tile the text exactly.
func (c *SentenceChunker) prepareSentences(text string) []schema.Sentence {
	splits := splitByDelimiters(text, c.delimiters, schema.IncludePrev)
	splits = foldShortSplits(splits, c.minCharactersPerSentence)

	sentences := make([]schema.Sentence, len(splits))
	cursor := 0
	for i, split := range splits {
		sentences[i] = schema.Sentence{
			Text:       split,
			StartIndex: cursor,
			EndIndex:   cursor + len(split),
			TokenCount: c.estimator.Estimate(split),
		}
		cursor += len(split)
	}
	return sentences
}

func (c *SentenceChunker) makeChunk(text string, group []schema.Sentence) schema.SentenceChunk {
	first, last := group[0], group[len(group)-1]
	chunkText := text[first.StartIndex:last.EndIndex]

	var b strings.Builder
	for _, s := range group {
		b.WriteString(s.Text)
	}
	if b.String() != chunkText {
		// Sentences tile the text by construction; anything else is a defect
		// worth surfacing in the logs, not a reason to fail the run.
		c.logger.Warn("sentence group does not tile its document slice",
			"chunk_prefix", preview(chunkText))
	}

	sentences := make([]schema.Sentence, len(group))
	copy(sentences, group)
	return schema.SentenceChunk{
		Chunk: schema.Chunk{
			Text:       chunkText,
			StartIndex: first.StartIndex,
			EndIndex:   last.EndIndex,
			TokenCount: c.estimator.Estimate(chunkText),
		},
		Sentences: sentences,
	}
}
