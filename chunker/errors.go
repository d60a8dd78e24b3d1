package chunker

import "errors"

var (
	// ErrInvalidConfig is returned by constructors for unusable configuration:
	// non-positive sizes, unknown return modes, or a missing tokenizer.
	ErrInvalidConfig = errors.New("invalid chunker configuration")

	// ErrInconsistentCounts reports a fragment/token-count length mismatch
	// inside the packer. Fragments and their counts are always produced
	// together, so this is an internal defect, not a recoverable condition.
	ErrInconsistentCounts = errors.New("fragments and token counts are inconsistent")
)
