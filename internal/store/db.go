// Package store persists the game's entities. The DB interface is the only
// surface the rest of the code sees; SQLiteDB is the shipped implementation.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Player is created once at character creation. Progression only ever touches
// experience and level; health is fixed from strength at creation.
type Player struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Level        int            `json:"level" db:"level"`
	Experience   int            `json:"experience" db:"experience"`
	Health       int            `json:"health" db:"health"`
	MaxHealth    int            `json:"maxHealth" db:"max_health"`
	Strength     int            `json:"strength" db:"strength"`
	Intelligence int            `json:"intelligence" db:"intelligence"`
	Agility      int            `json:"agility" db:"agility"`
	Wisdom       int            `json:"wisdom" db:"wisdom"`
	Inventory    []string       `json:"inventory" db:"inventory"`
	Appearance   map[string]any `json:"appearance" db:"appearance"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

// Dungeon is one player run's container of ordered rooms. Immutable after
// creation except for the image URL and completion flag.
type Dungeon struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Level       int       `json:"level" db:"level"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url"`
	IsCompleted bool      `json:"isCompleted" db:"is_completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Room is a puzzle-gated step inside a dungeon. RoomOrder values within one
// dungeon are unique consecutive integers starting at 1. PuzzleData is the
// single source of truth for the room's puzzle, answer included.
type Room struct {
	ID          string         `json:"id" db:"id"`
	DungeonID   string         `json:"dungeonId" db:"dungeon_id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	ImageURL    string         `json:"imageUrl,omitempty" db:"image_url"`
	PuzzleType  string         `json:"puzzleType" db:"puzzle_type"`
	PuzzleData  map[string]any `json:"puzzleData" db:"puzzle_data"`
	IsCompleted bool           `json:"isCompleted" db:"is_completed"`
	RoomOrder   int            `json:"order" db:"room_order"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// PlayerProgress is the single mutable pointer record per player: the active
// dungeon, the current room, and the ordered append-only completion history.
type PlayerProgress struct {
	ID             string    `json:"id" db:"id"`
	PlayerID       string    `json:"playerId" db:"player_id"`
	DungeonID      string    `json:"dungeonId,omitempty" db:"dungeon_id"`
	CurrentRoomID  string    `json:"currentRoomId,omitempty" db:"current_room_id"`
	CompletedRooms []string  `json:"completedRooms" db:"completed_rooms"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// DB is the persistence boundary. Implementations assign a fresh UUID when a
// created record has an empty ID.
type DB interface {
	Close() error
	Migrate() error

	CreatePlayer(ctx context.Context, p *Player) error
	GetPlayer(ctx context.Context, id string) (*Player, error)
	UpdatePlayer(ctx context.Context, p *Player) error
	ListPlayers(ctx context.Context, limit int) ([]Player, error)

	CreateDungeon(ctx context.Context, d *Dungeon) error
	GetDungeon(ctx context.Context, id string) (*Dungeon, error)
	UpdateDungeon(ctx context.Context, d *Dungeon) error

	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	UpdateRoom(ctx context.Context, r *Room) error
	GetRoomByOrder(ctx context.Context, dungeonID string, order int) (*Room, error)

	CreateProgress(ctx context.Context, pp *PlayerProgress) error
	GetProgressByPlayer(ctx context.Context, playerID string) (*PlayerProgress, error)
	UpdateProgress(ctx context.Context, pp *PlayerProgress) error
}
