package api

import (
	"dungeondelve/internal/game"
	"dungeondelve/internal/puzzle"
	"dungeondelve/internal/store"
)

// GameError is the structured error body every failed request returns.
type GameError struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e GameError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	ErrTypeValidation  = "validation_error"
	ErrTypeNotFound    = "not_found"
	ErrTypeConflict    = "conflict"
	ErrTypeUnavailable = "service_unavailable"
	ErrTypeInternal    = "internal_error"
)

// CreatePlayerRequest creates a character. Appearance is an opaque descriptor
// used only for image prompts; omitted stats fall back to the 10/10/10/10
// baseline.
type CreatePlayerRequest struct {
	Name       string         `json:"name"`
	Appearance map[string]any `json:"appearance,omitempty"`
	Stats      *game.Stats    `json:"stats,omitempty"`
}

// StartDungeonResponse returns the freshly created dungeon and its entrance.
type StartDungeonResponse struct {
	Dungeon     *store.Dungeon `json:"dungeon"`
	CurrentRoom *store.Room    `json:"currentRoom"`
}

// PuzzleResponse wraps the puzzle view for a room.
type PuzzleResponse struct {
	RoomID string        `json:"roomId"`
	Puzzle puzzle.Puzzle `json:"puzzle"`
}

// CheckAnswerRequest submits an answer. FoundClues carries the discovered
// clue ids for scavenger hunts and is ignored for other puzzle types.
type CheckAnswerRequest struct {
	Answer     string   `json:"answer"`
	FoundClues []string `json:"foundClues,omitempty"`
}

// PlayersResponse lists recent characters for the continue screen.
type PlayersResponse struct {
	Players []store.Player `json:"players"`
}

// PortraitResponse returns the commissioned portrait URL.
type PortraitResponse struct {
	PortraitURL string `json:"portraitUrl"`
}
