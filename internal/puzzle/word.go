package puzzle

var wordTable = []string{
	"TREASURE",
	"ADVENTURE",
	"MYSTERY",
	"PUZZLE",
}

// NewWord picks a word uniformly from the fixed list and scrambles its
// letters. The shuffle is not guaranteed to differ from the original word;
// an occasional free solve is acceptable.
func (c *Catalog) NewWord() Puzzle {
	word := wordTable[c.pick(len(wordTable))]
	letters := []rune(word)
	c.rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return Puzzle{
		Type: TypeWord,
		Data: map[string]any{
			"scrambled": string(letters),
		},
		Solution: word,
	}
}
