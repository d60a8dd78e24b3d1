package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidRule  = errors.New("invalid chunking rule")
	ErrNotIndexable = errors.New("rules are not backed by a level sequence")
)

// DelimPlacement controls what happens to a matched delimiter.
type DelimPlacement string

const (
	// IncludePrev attaches the delimiter to the preceding fragment.
	IncludePrev DelimPlacement = "prev"
	// IncludeNext attaches the delimiter to the following fragment.
	IncludeNext DelimPlacement = "next"
	// IncludeNone drops the delimiter entirely.
	IncludeNone DelimPlacement = "none"
)

// RecursiveLevel expresses the splitting policy at one depth of the rule
// hierarchy: either whitespace splitting, a set of custom delimiters, or
// neither, which means tokenizer-window splitting at the terminal level.
type RecursiveLevel struct {
	Whitespace   bool           `yaml:"whitespace"`
	Delimiters   []string       `yaml:"delimiters,omitempty"`
	IncludeDelim DelimPlacement `yaml:"include_delim,omitempty"`
}

// Validate checks the mutual-exclusivity and delimiter constraints.
func (l RecursiveLevel) Validate() error {
	if l.Whitespace && len(l.Delimiters) > 0 {
		return fmt.Errorf("%w: cannot use whitespace splitting and custom delimiters together", ErrInvalidRule)
	}
	for _, d := range l.Delimiters {
		if d == "" {
			return fmt.Errorf("%w: delimiters cannot be empty strings", ErrInvalidRule)
		}
		if d == " " {
			return fmt.Errorf("%w: a single-space delimiter is not allowed, set whitespace instead", ErrInvalidRule)
		}
	}
	switch l.IncludeDelim {
	case IncludePrev, IncludeNext, IncludeNone, "":
		return nil
	default:
		return fmt.Errorf("%w: unknown delimiter placement %q", ErrInvalidRule, l.IncludeDelim)
	}
}

// Placement returns the effective delimiter placement; the zero value
// defaults to IncludePrev.
func (l RecursiveLevel) Placement() DelimPlacement {
	if l.IncludeDelim == "" {
		return IncludePrev
	}
	return l.IncludeDelim
}

// NewDelimiterLevel builds a validated delimiter-splitting level.
func NewDelimiterLevel(delimiters []string, placement DelimPlacement) (RecursiveLevel, error) {
	l := RecursiveLevel{Delimiters: delimiters, IncludeDelim: placement}
	if err := l.Validate(); err != nil {
		return RecursiveLevel{}, err
	}
	return l, nil
}

// NewWhitespaceLevel builds a level that splits on single spaces.
func NewWhitespaceLevel() RecursiveLevel {
	return RecursiveLevel{Whitespace: true}
}

// NewTokenLevel builds the terminal level: no delimiters and no whitespace,
// which makes the splitter fall back to tokenizer-window splitting.
func NewTokenLevel() RecursiveLevel {
	return RecursiveLevel{}
}

// ToMap returns the level as a plain key-value representation.
func (l RecursiveLevel) ToMap() map[string]any {
	m := map[string]any{
		"whitespace":    l.Whitespace,
		"include_delim": string(l.Placement()),
	}
	if l.Delimiters != nil {
		delims := make([]any, len(l.Delimiters))
		for i, d := range l.Delimiters {
			delims[i] = d
		}
		m["delimiters"] = delims
	} else {
		m["delimiters"] = nil
	}
	return m
}

// LevelFromMap restores a validated level from its key-value representation.
func LevelFromMap(data map[string]any) (RecursiveLevel, error) {
	l := RecursiveLevel{}
	if v, ok := data["whitespace"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return RecursiveLevel{}, fmt.Errorf("%w: whitespace must be a bool, got %T", ErrInvalidRule, v)
		}
		l.Whitespace = b
	}
	if v, ok := data["delimiters"]; ok && v != nil {
		items, err := anySlice(v)
		if err != nil {
			return RecursiveLevel{}, fmt.Errorf("%w: delimiters: %v", ErrInvalidRule, err)
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return RecursiveLevel{}, fmt.Errorf("%w: delimiters must be strings, got %T", ErrInvalidRule, item)
			}
			l.Delimiters = append(l.Delimiters, s)
		}
	}
	if v, ok := data["include_delim"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return RecursiveLevel{}, fmt.Errorf("%w: include_delim must be a string, got %T", ErrInvalidRule, v)
		}
		l.IncludeDelim = DelimPlacement(s)
	}
	if err := l.Validate(); err != nil {
		return RecursiveLevel{}, err
	}
	return l, nil
}

// DefaultLevels returns the built-in five-level hierarchy: paragraph breaks,
// sentence boundaries, pause punctuation, words, and tokenizer windows.
func DefaultLevels() []RecursiveLevel {
	paragraphs := RecursiveLevel{
		Delimiters:   []string{"\n", "\n\n", "\r\n"},
		IncludeDelim: IncludePrev,
	}
	sentences := RecursiveLevel{
		Delimiters:   []string{".", "!", "?"},
		IncludeDelim: IncludePrev,
	}
	pauses := RecursiveLevel{
		Delimiters: []string{
			"{", "}", "\"", "[", "]", "<", ">", "(", ")",
			":", ";", ",", "—", "|", "~", "-", "...", "`", "'",
		},
		IncludeDelim: IncludePrev,
	}
	return []RecursiveLevel{paragraphs, sentences, pauses, NewWhitespaceLevel(), NewTokenLevel()}
}

// RecursiveRules is an ordered, immutable hierarchy of splitting levels,
// coarsest first. The zero-argument constructor installs DefaultLevels.
type RecursiveRules struct {
	levels []RecursiveLevel
	single *RecursiveLevel
}

// NewRules builds a hierarchy from the given levels, validating every member
// up front. With no arguments it installs the default five-level hierarchy.
func NewRules(levels ...RecursiveLevel) (*RecursiveRules, error) {
	if len(levels) == 0 {
		levels = DefaultLevels()
	}
	for i, l := range levels {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}
	owned := make([]RecursiveLevel, len(levels))
	copy(owned, levels)
	return &RecursiveRules{levels: owned}, nil
}

// NewSingleRule wraps one bare level. The result reports a length of one but
// does not support indexing or iteration.
func NewSingleRule(level RecursiveLevel) (*RecursiveRules, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return &RecursiveRules{single: &level}, nil
}

// Len returns the number of levels in the hierarchy.
func (r *RecursiveRules) Len() int {
	if r.single != nil {
		return 1
	}
	return len(r.levels)
}

// At returns the level at the given depth. Rules holding a single bare level
// return ErrNotIndexable.
func (r *RecursiveRules) At(i int) (RecursiveLevel, error) {
	if r.single != nil {
		return RecursiveLevel{}, fmt.Errorf("%w: indexing requires a level list", ErrNotIndexable)
	}
	if i < 0 || i >= len(r.levels) {
		return RecursiveLevel{}, fmt.Errorf("level index %d out of range [0, %d)", i, len(r.levels))
	}
	return r.levels[i], nil
}

// Levels returns a copy of the level sequence for iteration. Rules holding a
// single bare level return ErrNotIndexable.
func (r *RecursiveRules) Levels() ([]RecursiveLevel, error) {
	if r.single != nil {
		return nil, fmt.Errorf("%w: iteration requires a level list", ErrNotIndexable)
	}
	out := make([]RecursiveLevel, len(r.levels))
	copy(out, r.levels)
	return out, nil
}

// ToMap returns the rules as a plain key-value representation. The "levels"
// entry is a list of level maps, or a single map for single-rule hierarchies.
func (r *RecursiveRules) ToMap() map[string]any {
	if r.single != nil {
		return map[string]any{"levels": r.single.ToMap()}
	}
	levels := make([]any, len(r.levels))
	for i, l := range r.levels {
		levels[i] = l.ToMap()
	}
	return map[string]any{"levels": levels}
}

// RulesFromMap restores a hierarchy from its key-value representation.
func RulesFromMap(data map[string]any) (*RecursiveRules, error) {
	raw, ok := data["levels"]
	if !ok || raw == nil {
		return NewRules()
	}
	if m, ok := raw.(map[string]any); ok {
		level, err := LevelFromMap(m)
		if err != nil {
			return nil, err
		}
		return NewSingleRule(level)
	}
	items, err := anySlice(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: levels: %v", ErrInvalidRule, err)
	}
	levels := make([]RecursiveLevel, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: level %d must be a map, got %T", ErrInvalidRule, i, item)
		}
		level, err := LevelFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		levels = append(levels, level)
	}
	return NewRules(levels...)
}

// ToYAML serializes the hierarchy for config interchange.
func (r *RecursiveRules) ToYAML() ([]byte, error) {
	if r.single != nil {
		return yaml.Marshal(struct {
			Levels RecursiveLevel `yaml:"levels"`
		}{Levels: *r.single})
	}
	return yaml.Marshal(struct {
		Levels []RecursiveLevel `yaml:"levels"`
	}{Levels: r.levels})
}

// RulesFromYAML loads and validates a hierarchy from YAML config. The
// "levels" key may hold a list of levels or one bare level.
func RulesFromYAML(data []byte) (*RecursiveRules, error) {
	var multi struct {
		Levels []RecursiveLevel `yaml:"levels"`
	}
	if err := yaml.Unmarshal(data, &multi); err == nil && multi.Levels != nil {
		return NewRules(multi.Levels...)
	}
	var single struct {
		Levels *RecursiveLevel `yaml:"levels"`
	}
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if single.Levels == nil {
		return NewRules()
	}
	return NewSingleRule(*single.Levels)
}
