package puzzle

type patternEntry struct {
	sequence []any // mixed ints and strings, "?" marks the unknown slot
	answer   string
	hint     string
}

var patternTable = []patternEntry{
	{
		sequence: []any{2, 4, 6, 8, "?"},
		answer:   "10",
		hint:     "Even numbers",
	},
	{
		sequence: []any{1, 1, 2, 3, 5, "?"},
		answer:   "8",
		hint:     "Fibonacci sequence",
	},
	{
		sequence: []any{"A", "C", "E", "G", "?"},
		answer:   "I",
		hint:     "Skip one letter",
	},
}

// NewPattern picks a sequence-completion puzzle uniformly from the fixed
// table. The sequence keeps its "?" sentinel so the client can render the
// unknown slot.
func (c *Catalog) NewPattern() Puzzle {
	p := patternTable[c.pick(len(patternTable))]
	seq := make([]any, len(p.sequence))
	copy(seq, p.sequence)
	return Puzzle{
		Type: TypePattern,
		Data: map[string]any{
			"sequence": seq,
			"hint":     p.hint,
		},
		Solution: p.answer,
	}
}
