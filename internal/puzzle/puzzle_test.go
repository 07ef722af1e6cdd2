package puzzle

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"
)

func testCatalog(seed uint64) *Catalog {
	return NewCatalog(rand.New(rand.NewPCG(seed, seed)))
}

func TestGenerateKnownFamilies(t *testing.T) {
	c := testCatalog(1)
	for _, family := range SimpleFamilies() {
		p, ok := c.Generate(family)
		if !ok {
			t.Fatalf("Generate(%q) not regenerable", family)
		}
		if p.Type != family {
			t.Errorf("Generate(%q) type = %q", family, p.Type)
		}
		if p.Solution == "" {
			t.Errorf("Generate(%q) empty solution", family)
		}
	}
}

func TestGenerateUnknownFamily(t *testing.T) {
	c := testCatalog(1)
	if _, ok := c.Generate("maze"); ok {
		t.Error("Generate should not recognize family 'maze'")
	}
	if _, ok := c.Generate(TypeScavengerHunt); ok {
		t.Error("scavenger hunts must be replayed from the payload, not regenerated")
	}
}

// The evaluator must accept every puzzle's own solution.
func TestEvaluatorReflexivity(t *testing.T) {
	c := testCatalog(42)
	for i := 0; i < 50; i++ {
		for _, family := range SimpleFamilies() {
			p, _ := c.Generate(family)
			if res := Check(p, p.Solution); !res.Solved {
				t.Fatalf("Check(%s, own solution %q) not solved: %s", family, p.Solution, res.Message)
			}
		}
	}
}

func TestEvaluatorNormalization(t *testing.T) {
	c := testCatalog(7)
	p := c.NewRiddle()
	got := Check(p, "  "+strings.ToUpper(p.Solution)+" ")
	if !got.Solved {
		t.Errorf("Check should ignore case and surrounding whitespace, got %+v", got)
	}
	if wrong := Check(p, "definitely wrong"); wrong.Solved {
		t.Errorf("Check accepted a wrong answer")
	} else if wrong.Message == "" {
		t.Errorf("failed check should carry a message")
	}
}

func TestDeterministicSelection(t *testing.T) {
	a := testCatalog(99)
	b := testCatalog(99)
	for i := 0; i < 20; i++ {
		pa := a.NewRiddle()
		pb := b.NewRiddle()
		if pa.Data["question"] != pb.Data["question"] {
			t.Fatalf("same seed diverged at pick %d: %v vs %v", i, pa.Data["question"], pb.Data["question"])
		}
	}
}

func TestWordScrambleIsPermutation(t *testing.T) {
	c := testCatalog(3)
	for i := 0; i < 50; i++ {
		p := c.NewWord()
		scrambled, ok := p.Data["scrambled"].(string)
		if !ok {
			t.Fatal("word puzzle missing scrambled data")
		}
		if sortLetters(scrambled) != sortLetters(p.Solution) {
			t.Fatalf("scramble %q is not a permutation of %q", scrambled, p.Solution)
		}
	}
}

func sortLetters(s string) string {
	letters := strings.Split(s, "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}

func TestPatternKeepsSentinel(t *testing.T) {
	c := testCatalog(5)
	p := c.NewPattern()
	seq, ok := p.Data["sequence"].([]any)
	if !ok || len(seq) == 0 {
		t.Fatalf("pattern puzzle missing sequence: %v", p.Data)
	}
	if seq[len(seq)-1] != "?" {
		t.Errorf("last slot should be the ? sentinel, got %v", seq[len(seq)-1])
	}
	if p.Data["hint"] == "" {
		t.Error("pattern puzzle should carry a hint")
	}
}

func TestSimplePayloadRoundTrip(t *testing.T) {
	c := testCatalog(11)
	p := c.NewRiddle()
	payload := EncodePayload(p)
	answer, ok := PayloadAnswer(payload)
	if !ok || answer != p.Solution {
		t.Fatalf("PayloadAnswer = %q, %v; want %q", answer, ok, p.Solution)
	}
	if payload["question"] != p.Data["question"] {
		t.Errorf("payload lost presentation data")
	}
}
