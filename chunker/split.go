package chunker

import (
	"strings"

	"github.com/sevigo/chunker/schema"
)

// splitByDelimiters slices text at every delimiter occurrence. Matching scans
// byte positions and tries the delimiters in rule order, so the first listed
// delimiter wins at any position. Slicing around match positions avoids
// injecting an in-band sentinel that could collide with real content.
// Empty fragments are discarded.
func splitByDelimiters(text string, delimiters []string, placement schema.DelimPlacement) []string {
	var splits []string
	emit := func(fragment string) {
		if fragment != "" {
			splits = append(splits, fragment)
		}
	}

	start := 0
	i := 0
	for i < len(text) {
		var matched string
		for _, d := range delimiters {
			if strings.HasPrefix(text[i:], d) {
				matched = d
				break
			}
		}
		if matched == "" {
			i++
			continue
		}
		switch placement {
		case schema.IncludeNext:
			emit(text[start:i])
			start = i
			i += len(matched)
		case schema.IncludeNone:
			emit(text[start:i])
			i += len(matched)
			start = i
		default: // IncludePrev
			i += len(matched)
			emit(text[start:i])
			start = i
		}
	}
	emit(text[start:])
	return splits
}

// foldShortSplits merges fragments shorter than minChars forward into an
// accumulator until it reaches the threshold, then flushes it as one
// fragment. A trailing short accumulator is flushed regardless of length.
// This is a single left-to-right pass; flush order matches input order.
func foldShortSplits(splits []string, minChars int) []string {
	var merged []string
	current := ""
	for _, split := range splits {
		if len(split) < minChars {
			current += split
		} else if current != "" {
			current += split
			merged = append(merged, current)
			current = ""
		} else {
			merged = append(merged, split)
		}
		if len(current) >= minChars {
			merged = append(merged, current)
			current = ""
		}
	}
	if current != "" {
		merged = append(merged, current)
	}
	return merged
}

// splitText applies one level's splitting policy to text.
func (c *RecursiveChunker) splitText(text string, level schema.RecursiveLevel) []string {
	switch {
	case level.Whitespace:
		return strings.Split(text, " ")
	case len(level.Delimiters) > 0:
		splits := splitByDelimiters(text, level.Delimiters, level.Placement())
		return foldShortSplits(splits, c.minCharactersPerChunk)
	default:
		return c.splitByTokens(text)
	}
}

// splitByTokens encodes text and decodes consecutive windows of at most
// chunkSize tokens. This terminal path is the only one that chunks with the
// tokenizer directly instead of character delimiters.
func (c *RecursiveChunker) splitByTokens(text string) []string {
	tokens := c.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil
	}
	var windows [][]int
	for start := 0; start < len(tokens); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, tokens[start:end])
	}
	return c.tokenizer.DecodeBatch(windows)
}
