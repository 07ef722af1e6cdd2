package puzzle

import "strings"

type riddleEntry struct {
	question string
	answer   string
}

var riddleTable = []riddleEntry{
	{
		question: "I speak without a mouth and hear without ears. I have no body, but I come alive with wind. What am I?",
		answer:   "echo",
	},
	{
		question: "The more you take, the more you leave behind. What am I?",
		answer:   "footsteps",
	},
	{
		question: "I have cities, but no houses. I have mountains, but no trees. I have water, but no fish. What am I?",
		answer:   "map",
	},
	{
		question: "What has keys but no locks, space but no room, and you can enter but not go inside?",
		answer:   "keyboard",
	},
}

// NewRiddle picks a riddle uniformly from the fixed table. The solution is a
// single lowercase word.
func (c *Catalog) NewRiddle() Puzzle {
	r := riddleTable[c.pick(len(riddleTable))]
	return Puzzle{
		Type: TypeRiddle,
		Data: map[string]any{
			"question": r.question,
		},
		Solution: strings.ToLower(r.answer),
	}
}
