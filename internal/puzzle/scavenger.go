package puzzle

import "strings"

// Clue is a discoverable sub-unit of a scavenger hunt. Location is a
// presentation tag only; Found tracks per-player discovery state.
type Clue struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Found       bool   `json:"found"`
	Hint        string `json:"hint,omitempty"`
}

// ScavengerHunt is a multi-clue puzzle. The answer may only be judged once at
// least RequiredClues clues have been discovered; RequiredClues is strictly
// less than the clue count, so partial information must suffice.
type ScavengerHunt struct {
	Theme         string `json:"theme"`
	Clues         []Clue `json:"clues"`
	Solution      string `json:"solution"`
	SolutionHint  string `json:"solutionHint"`
	RequiredClues int    `json:"requiredClues"`
}

var scavengerTable = []ScavengerHunt{
	{
		Theme: "Ancient Riddle",
		Clues: []Clue{
			{
				ID:          "clue1",
				Name:        "Old Scroll",
				Description: "A weathered scroll with faded writing",
				Location:    "bookshelf",
				Hint:        "The first word starts with 'W'",
			},
			{
				ID:          "clue2",
				Name:        "Carved Stone",
				Description: "A stone tablet with ancient symbols",
				Location:    "wall",
				Hint:        "The second word rhymes with 'door'",
			},
			{
				ID:          "clue3",
				Name:        "Glowing Crystal",
				Description: "A crystal that pulses with light",
				Location:    "pedestal",
				Hint:        "The answer is a single word combining both clues",
			},
		},
		Solution:      "waterfall",
		SolutionHint:  "Combine the words from the scroll and stone: 'water' + 'fall'",
		RequiredClues: 2,
	},
	{
		Theme: "Number Sequence",
		Clues: []Clue{
			{
				ID:          "clue1",
				Name:        "First Number",
				Description: "A number carved into a wooden beam",
				Location:    "ceiling",
				Hint:        "The number is 2",
			},
			{
				ID:          "clue2",
				Name:        "Second Number",
				Description: "A number painted on a flag",
				Location:    "wall",
				Hint:        "The number is 4",
			},
			{
				ID:          "clue3",
				Name:        "Third Number",
				Description: "A number etched in stone",
				Location:    "floor",
				Hint:        "The number is 8",
			},
			{
				ID:          "clue4",
				Name:        "Pattern Hint",
				Description: "A note explaining the pattern",
				Location:    "chest",
				Hint:        "Each number doubles the previous",
			},
		},
		Solution:      "16",
		SolutionHint:  "The pattern doubles each time: 2, 4, 8, ?",
		RequiredClues: 3,
	},
	{
		Theme: "Color Combination",
		Clues: []Clue{
			{
				ID:          "clue1",
				Name:        "Red Gem",
				Description: "A glowing red gem",
				Location:    "left wall",
				Hint:        "Red represents fire",
			},
			{
				ID:          "clue2",
				Name:        "Blue Gem",
				Description: "A shimmering blue gem",
				Location:    "right wall",
				Hint:        "Blue represents water",
			},
			{
				ID:          "clue3",
				Name:        "Combination Note",
				Description: "Instructions for combining the gems",
				Location:    "altar",
				Hint:        "Combine fire and water to get...",
			},
		},
		Solution:      "steam",
		SolutionHint:  "Fire + Water = Steam",
		RequiredClues: 2,
	},
	{
		Theme: "Direction Puzzle",
		Clues: []Clue{
			{
				ID:          "clue1",
				Name:        "North Arrow",
				Description: "An arrow pointing north",
				Location:    "north wall",
				Hint:        "Points to 'N'",
			},
			{
				ID:          "clue2",
				Name:        "East Arrow",
				Description: "An arrow pointing east",
				Location:    "east wall",
				Hint:        "Points to 'E'",
			},
			{
				ID:          "clue3",
				Name:        "South Arrow",
				Description: "An arrow pointing south",
				Location:    "south wall",
				Hint:        "Points to 'S'",
			},
			{
				ID:          "clue4",
				Name:        "West Arrow",
				Description: "An arrow pointing west",
				Location:    "west wall",
				Hint:        "Points to 'W'",
			},
		},
		Solution:      "news",
		SolutionHint:  "Combine the directions: N + E + W + S",
		RequiredClues: 3,
	},
}

// NewScavengerHunt picks a theme uniformly from the fixed table and returns a
// deep copy: the clue slice is cloned per element so per-player discovery
// state never aliases the catalog template.
func (c *Catalog) NewScavengerHunt() ScavengerHunt {
	t := scavengerTable[c.pick(len(scavengerTable))]
	clues := make([]Clue, len(t.Clues))
	copy(clues, t.Clues)
	return ScavengerHunt{
		Theme:         t.Theme,
		Clues:         clues,
		Solution:      strings.ToLower(t.Solution),
		SolutionHint:  t.SolutionHint,
		RequiredClues: t.RequiredClues,
	}
}

// FoundCount returns how many clues have been discovered.
func (h ScavengerHunt) FoundCount() int {
	n := 0
	for _, c := range h.Clues {
		if c.Found {
			n++
		}
	}
	return n
}

// Discover marks a clue found, returning a new hunt with a fresh clue slice.
// Re-discovering a found clue or naming an unknown id leaves the state
// unchanged; the receiver is never mutated.
func Discover(h ScavengerHunt, clueID string) ScavengerHunt {
	clues := make([]Clue, len(h.Clues))
	copy(clues, h.Clues)
	for i := range clues {
		if clues[i].ID == clueID {
			clues[i].Found = true
		}
	}
	h.Clues = clues
	return h
}
