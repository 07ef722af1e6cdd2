package puzzle

import (
	"fmt"
	"strings"
)

// Result is the verdict on a submitted answer.
type Result struct {
	Solved  bool   `json:"solved"`
	Message string `json:"message"`
}

// Verdict messages shown to the player.
const (
	msgCorrect          = "Correct! You solved the puzzle!"
	msgIncorrect        = "That's not quite right. Try again!"
	msgScavengerCorrect = "Correct! You solved the puzzle by combining all the clues!"
	msgScavengerWrong   = "That's not quite right. Review the clues you've found and try again!"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check judges an answer against a simple puzzle's solution. Both sides are
// trimmed and lowercased; there is no partial credit.
func Check(p Puzzle, answer string) Result {
	if normalize(answer) == normalize(p.Solution) {
		return Result{Solved: true, Message: msgCorrect}
	}
	return Result{Solved: false, Message: msgIncorrect}
}

// CanAttempt reports whether enough clues have been found to judge an answer.
func CanAttempt(h ScavengerHunt) bool {
	return h.FoundCount() >= h.RequiredClues
}

// CheckScavenger judges an answer against a scavenger hunt. The clue gate is
// evaluated first: below the required count the answer is not judged at all,
// even if it happens to be correct, so exploration cannot be brute-forced
// past.
func CheckScavenger(h ScavengerHunt, answer string) Result {
	found := h.FoundCount()
	if found < h.RequiredClues {
		return Result{
			Solved: false,
			Message: fmt.Sprintf(
				"You need to find at least %d clues before attempting to solve. You've found %d.",
				h.RequiredClues, found,
			),
		}
	}
	if normalize(answer) == normalize(h.Solution) {
		return Result{Solved: true, Message: msgScavengerCorrect}
	}
	return Result{Solved: false, Message: msgScavengerWrong}
}
