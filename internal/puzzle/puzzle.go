// Package puzzle holds the catalog of puzzle families a room can be gated
// behind, and the evaluator that judges submitted answers.
//
// Generation is intentionally stateless: every call produces an independent
// random instance, and callers that need a stable puzzle across requests must
// read it back from the persisted room payload rather than regenerate it.
package puzzle

import (
	"fmt"
	"math/rand/v2"
)

// Puzzle family tags. The tag is persisted on the room record and drives both
// regeneration and evaluation dispatch.
const (
	TypeRiddle        = "riddle"
	TypePattern       = "pattern"
	TypeWord          = "word"
	TypeScavengerHunt = "scavenger-hunt"
)

// Puzzle is a self-contained simple puzzle instance. Data carries the
// presentation payload shown to the player; Solution is the accepted answer.
type Puzzle struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Solution string         `json:"solution"`
}

// Catalog produces puzzle instances from fixed template tables using an
// injected random source, so seeded sources give deterministic selection.
type Catalog struct {
	rng *rand.Rand
}

// NewCatalog creates a catalog over the given source. A nil rng falls back to
// a source seeded from the process-global generator.
func NewCatalog(rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Catalog{rng: rng}
}

// simpleGenerators maps the regenerable families to their constructors.
// Scavenger hunts are deliberately absent: their per-player clue state means a
// stored hunt is always replayed from the room payload, never regenerated.
var simpleGenerators = map[string]func(*Catalog) Puzzle{
	TypeRiddle:  (*Catalog).NewRiddle,
	TypePattern: (*Catalog).NewPattern,
	TypeWord:    (*Catalog).NewWord,
}

// Generate returns a brand-new instance of the given simple family. The
// second return reports whether the family is regenerable; callers fall back
// to the persisted payload when it is not.
func (c *Catalog) Generate(family string) (Puzzle, bool) {
	gen, ok := simpleGenerators[family]
	if !ok {
		return Puzzle{}, false
	}
	return gen(c), true
}

// SimpleFamilies returns the regenerable family tags.
func SimpleFamilies() []string {
	return []string{TypeRiddle, TypePattern, TypeWord}
}

func (c *Catalog) pick(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("puzzle: pick from empty table (n=%d)", n))
	}
	return c.rng.IntN(n)
}
