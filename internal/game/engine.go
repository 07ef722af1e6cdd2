// Package game owns the player/dungeon/room progression state machine:
// character creation, dungeon assembly, answer checking, room completion,
// and the game-state query.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"dungeondelve/internal/images"
	"dungeondelve/internal/puzzle"
	"dungeondelve/internal/store"
)

// PuzzleMode selects how rooms are assigned puzzle families at dungeon
// creation. The two historical flows collapse into this one switch.
type PuzzleMode string

const (
	// ModeClassic round-robins riddle, pattern, and word puzzles.
	ModeClassic PuzzleMode = "classic"
	// ModeScavenger gives every room a scavenger hunt and places the
	// character into the commissioned room art.
	ModeScavenger PuzzleMode = "scavenger"
)

// ParseMode validates a configured puzzle mode string.
func ParseMode(s string) (PuzzleMode, error) {
	switch PuzzleMode(s) {
	case ModeClassic, ModeScavenger:
		return PuzzleMode(s), nil
	case "":
		return ModeClassic, nil
	default:
		return "", fmt.Errorf("unknown puzzle mode %q", s)
	}
}

// ImageGenerator is the narrow slice of the image gateway the engine needs.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine executes game operations against the store. Each operation is an
// independent read-modify-write with no cross-request coordination;
// concurrent completions for the same player can race and lose an update,
// which is accepted.
type Engine struct {
	db      store.DB
	catalog *puzzle.Catalog
	images  ImageGenerator
	mode    PuzzleMode
}

// New creates an engine. A nil images generator disables commissioning.
func New(db store.DB, catalog *puzzle.Catalog, imgs ImageGenerator, mode PuzzleMode) *Engine {
	if mode == "" {
		mode = ModeClassic
	}
	return &Engine{db: db, catalog: catalog, images: imgs, mode: mode}
}

// Stats is the four-attribute block chosen at character creation.
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Wisdom       int `json:"wisdom"`
}

// Point-buy bounds: every stat starts at 10 with 20 points to spend, and no
// stat may leave [5, 20].
const (
	statMin      = 5
	statMax      = 20
	statBaseSum  = 40
	statPointCap = 20
)

func defaultStats() Stats {
	return Stats{Strength: 10, Intelligence: 10, Agility: 10, Wisdom: 10}
}

func validateStats(s Stats) error {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"strength", s.Strength},
		{"intelligence", s.Intelligence},
		{"agility", s.Agility},
		{"wisdom", s.Wisdom},
	} {
		if v.value < statMin || v.value > statMax {
			return validationf("%s must be between %d and %d", v.name, statMin, statMax)
		}
	}
	total := s.Strength + s.Intelligence + s.Agility + s.Wisdom
	if total > statBaseSum+statPointCap {
		return validationf("stats total %d exceeds the %d-point budget", total, statBaseSum+statPointCap)
	}
	return nil
}

// CreatePlayer validates the name, applies stat defaults, derives health from
// strength, and persists the player plus an empty progress record.
func (e *Engine) CreatePlayer(ctx context.Context, name string, appearance map[string]any, stats *Stats) (*store.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("name is required")
	}

	s := defaultStats()
	if stats != nil {
		s = *stats
	}
	if err := validateStats(s); err != nil {
		return nil, err
	}
	if appearance == nil {
		appearance = map[string]any{}
	}

	maxHealth := 100 + s.Strength*5
	player := &store.Player{
		Name:         name,
		Level:        1,
		Experience:   0,
		Health:       maxHealth,
		MaxHealth:    maxHealth,
		Strength:     s.Strength,
		Intelligence: s.Intelligence,
		Agility:      s.Agility,
		Wisdom:       s.Wisdom,
		Inventory:    []string{},
		Appearance:   appearance,
	}
	if err := e.db.CreatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	progress := &store.PlayerProgress{
		PlayerID:       player.ID,
		CompletedRooms: []string{},
	}
	if err := e.db.CreateProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("create player progress: %w", err)
	}

	log.Printf("player_created player_id=%s name=%q max_health=%d", player.ID, player.Name, maxHealth)
	return player, nil
}

// The starter dungeon is fixed; every run begins in the Crystal Caverns.
const (
	dungeonName  = "Crystal Caverns"
	dungeonDesc  = "Your first adventure begins in the mysterious Crystal Caverns. Solve puzzles to progress!"
	dungeonTheme = "A magical crystal cave with glowing gems and mysterious pathways"
	entranceDesc = "A magical crystal cave entrance with glowing gems and mysterious pathways"
)

type roomTemplate struct {
	name        string
	description string
}

var roomTemplates = []roomTemplate{
	{
		name:        "Entrance Hall",
		description: "You stand at the entrance of the Crystal Caverns. The walls shimmer with magical energy.",
	},
	{
		name:        "Gem Chamber",
		description: "A chamber filled with glowing crystals. Each gem seems to pulse with its own rhythm.",
	},
	{
		name:        "Mirror Maze",
		description: "You enter a room filled with mirrors. Your reflection seems to move independently.",
	},
}

// roomPuzzle builds the persisted (type, payload) pair for the room at index
// i according to the configured mode.
func (e *Engine) roomPuzzle(i int) (string, map[string]any, error) {
	if e.mode == ModeScavenger {
		hunt := e.catalog.NewScavengerHunt()
		payload, err := puzzle.EncodeScavenger(hunt)
		if err != nil {
			return "", nil, err
		}
		return puzzle.TypeScavengerHunt, payload, nil
	}
	families := puzzle.SimpleFamilies()
	p, _ := e.catalog.Generate(families[i%len(families)])
	return p.Type, puzzle.EncodePayload(p), nil
}

// commission asks for an image and swallows every failure: absence of art
// must never block dungeon creation.
func (e *Engine) commission(ctx context.Context, subject, prompt string) string {
	if e.images == nil {
		return ""
	}
	url, err := e.images.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, images.ErrNotConfigured) {
			return ""
		}
		log.Printf("image_generation_failed subject=%q err=%v", subject, err)
		return ""
	}
	return url
}

// StartDungeon creates the starter dungeon and its three rooms, each with a
// freshly generated puzzle whose solution is embedded in the persisted
// payload, then points the player's progress at the first room.
func (e *Engine) StartDungeon(ctx context.Context, playerID string) (*store.Dungeon, *store.Room, error) {
	progress, err := e.db.GetProgressByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, notFound("player progress", playerID)
		}
		return nil, nil, fmt.Errorf("load progress: %w", err)
	}
	if progress.DungeonID != "" {
		return nil, nil, conflictf("player already has an active dungeon")
	}

	// Appearance feeds the image prompts in scavenger mode.
	player, err := e.db.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, notFound("player", playerID)
		}
		return nil, nil, fmt.Errorf("load player: %w", err)
	}

	dungeon := &store.Dungeon{
		Name:        dungeonName,
		Level:       1,
		Description: dungeonDesc,
	}
	if err := e.db.CreateDungeon(ctx, dungeon); err != nil {
		return nil, nil, fmt.Errorf("create dungeon: %w", err)
	}

	if url := e.commission(ctx, "dungeon entrance",
		images.RoomPrompt(entranceDesc, dungeonTheme, nil, "")); url != "" {
		dungeon.ImageURL = url
		if err := e.db.UpdateDungeon(ctx, dungeon); err != nil {
			log.Printf("dungeon_image_save_failed dungeon_id=%s err=%v", dungeon.ID, err)
		}
	}

	var sceneAppearance map[string]any
	if e.mode == ModeScavenger {
		sceneAppearance = player.Appearance
	}

	var firstRoom *store.Room
	for i, tpl := range roomTemplates {
		puzzleType, payload, err := e.roomPuzzle(i)
		if err != nil {
			return nil, nil, fmt.Errorf("generate puzzle for room %d: %w", i+1, err)
		}

		room := &store.Room{
			DungeonID:   dungeon.ID,
			Name:        tpl.name,
			Description: tpl.description,
			PuzzleType:  puzzleType,
			PuzzleData:  payload,
			RoomOrder:   i + 1,
			ImageURL: e.commission(ctx, tpl.name,
				images.RoomPrompt(tpl.description, dungeonTheme, sceneAppearance, "")),
		}
		if err := e.db.CreateRoom(ctx, room); err != nil {
			return nil, nil, fmt.Errorf("create room %d: %w", i+1, err)
		}
		if firstRoom == nil {
			firstRoom = room
		}
	}

	progress.DungeonID = dungeon.ID
	progress.CurrentRoomID = firstRoom.ID
	if err := e.db.UpdateProgress(ctx, progress); err != nil {
		return nil, nil, fmt.Errorf("update progress: %w", err)
	}

	log.Printf("dungeon_started player_id=%s dungeon_id=%s mode=%s rooms=%d",
		playerID, dungeon.ID, e.mode, len(roomTemplates))
	return dungeon, firstRoom, nil
}

// GetPuzzleForRoom returns a puzzle view for the room's persisted type. A
// recognized family yields a brand-new random instance; anything else replays
// the persisted payload verbatim, which is also how scavenger hunts keep
// their clue layout stable across requests.
func (e *Engine) GetPuzzleForRoom(ctx context.Context, roomID string) (puzzle.Puzzle, error) {
	room, err := e.db.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return puzzle.Puzzle{}, notFound("room", roomID)
		}
		return puzzle.Puzzle{}, fmt.Errorf("load room: %w", err)
	}
	if room.PuzzleType == "" {
		return puzzle.Puzzle{}, notFound("puzzle for room", roomID)
	}

	if p, ok := e.catalog.Generate(room.PuzzleType); ok {
		return p, nil
	}

	answer, _ := puzzle.PayloadAnswer(room.PuzzleData)
	data := room.PuzzleData
	if data == nil {
		data = map[string]any{}
	}
	return puzzle.Puzzle{
		Type:     room.PuzzleType,
		Data:     data,
		Solution: answer,
	}, nil
}

// CheckAnswer judges a submitted answer against the room's persisted puzzle
// payload. For scavenger hunts the caller's discovered clue ids are applied
// before the gate check. A solved verdict triggers room completion.
func (e *Engine) CheckAnswer(ctx context.Context, playerID, roomID, answer string, foundClues []string) (puzzle.Result, error) {
	room, err := e.db.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return puzzle.Result{}, notFound("room", roomID)
		}
		return puzzle.Result{}, fmt.Errorf("load room: %w", err)
	}
	if room.PuzzleType == "" || room.PuzzleData == nil {
		return puzzle.Result{}, notFound("puzzle for room", roomID)
	}

	var result puzzle.Result
	switch room.PuzzleType {
	case puzzle.TypeScavengerHunt:
		hunt, err := puzzle.ParseScavenger(room.PuzzleData)
		if err != nil {
			return puzzle.Result{}, fmt.Errorf("room %s: %w", roomID, err)
		}
		for _, id := range foundClues {
			hunt = puzzle.Discover(hunt, id)
		}
		result = puzzle.CheckScavenger(hunt, answer)
	default:
		solution, ok := puzzle.PayloadAnswer(room.PuzzleData)
		if !ok {
			return puzzle.Result{}, notFound("puzzle for room", roomID)
		}
		result = puzzle.Check(puzzle.Puzzle{Solution: solution}, answer)
	}

	log.Printf("answer_checked player_id=%s room_id=%s type=%s solved=%t",
		playerID, roomID, room.PuzzleType, result.Solved)

	if result.Solved {
		if _, err := e.CompleteRoom(ctx, playerID, roomID); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Flat completion reward; no difficulty scaling.
const (
	roomExperience = 50
	levelDivisor   = 200
)

// CompleteRoom marks the room done, appends it to the completion history,
// awards experience, and advances the current-room pointer when a next room
// exists. Completing the final room leaves the pointer in place. Calling
// this twice for the same room appends and rewards again; the API makes no
// idempotency promise.
func (e *Engine) CompleteRoom(ctx context.Context, playerID, roomID string) (*store.PlayerProgress, error) {
	progress, err := e.db.GetProgressByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("player progress", playerID)
		}
		return nil, fmt.Errorf("load progress: %w", err)
	}

	room, err := e.db.GetRoom(ctx, roomID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room != nil {
		room.IsCompleted = true
		if err := e.db.UpdateRoom(ctx, room); err != nil {
			return nil, fmt.Errorf("mark room completed: %w", err)
		}
	}

	progress.CompletedRooms = append(progress.CompletedRooms, roomID)

	if player, err := e.db.GetPlayer(ctx, playerID); err == nil {
		player.Experience += roomExperience
		player.Level = player.Experience/levelDivisor + 1
		if err := e.db.UpdatePlayer(ctx, player); err != nil {
			return nil, fmt.Errorf("award experience: %w", err)
		}
		log.Printf("experience_awarded player_id=%s experience=%d level=%d",
			playerID, player.Experience, player.Level)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load player: %w", err)
	}

	if room != nil && progress.DungeonID != "" {
		next, err := e.db.GetRoomByOrder(ctx, room.DungeonID, room.RoomOrder+1)
		switch {
		case err == nil:
			progress.CurrentRoomID = next.ID
		case errors.Is(err, store.ErrNotFound):
			// Last room: the pointer stays on the completed room.
		default:
			return nil, fmt.Errorf("find next room: %w", err)
		}
	}

	if err := e.db.UpdateProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return progress, nil
}

// GameState is the read-only assembly returned to the client. Dungeon and
// CurrentRoom degrade to null when progress has no references.
type GameState struct {
	Player         *store.Player  `json:"player"`
	Dungeon        *store.Dungeon `json:"dungeon"`
	CurrentRoom    *store.Room    `json:"currentRoom"`
	CompletedRooms []string       `json:"completedRooms"`
}

// GetGameState loads the player and whatever dungeon/room the progress
// record still points at.
func (e *Engine) GetGameState(ctx context.Context, playerID string) (*GameState, error) {
	player, err := e.db.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("player", playerID)
		}
		return nil, fmt.Errorf("load player: %w", err)
	}

	state := &GameState{Player: player, CompletedRooms: []string{}}

	progress, err := e.db.GetProgressByPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return state, nil
		}
		return nil, fmt.Errorf("load progress: %w", err)
	}
	state.CompletedRooms = progress.CompletedRooms

	if progress.DungeonID != "" {
		if dungeon, err := e.db.GetDungeon(ctx, progress.DungeonID); err == nil {
			state.Dungeon = dungeon
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load dungeon: %w", err)
		}
	}
	if progress.CurrentRoomID != "" {
		if room, err := e.db.GetRoom(ctx, progress.CurrentRoomID); err == nil {
			state.CurrentRoom = room
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load current room: %w", err)
		}
	}
	return state, nil
}

// GeneratePortrait commissions a character portrait from the player's
// appearance and stores the URL back into the appearance descriptor. Unlike
// scene art this is user-initiated, so gateway failures surface.
func (e *Engine) GeneratePortrait(ctx context.Context, playerID string) (string, error) {
	player, err := e.db.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", notFound("player", playerID)
		}
		return "", fmt.Errorf("load player: %w", err)
	}
	if e.images == nil {
		return "", images.ErrNotConfigured
	}

	url, err := e.images.Generate(ctx, images.PortraitPrompt(player.Appearance))
	if err != nil {
		return "", fmt.Errorf("generate portrait: %w", err)
	}

	if player.Appearance == nil {
		player.Appearance = map[string]any{}
	}
	player.Appearance["portraitUrl"] = url
	if err := e.db.UpdatePlayer(ctx, player); err != nil {
		return "", fmt.Errorf("save portrait: %w", err)
	}
	log.Printf("portrait_generated player_id=%s", playerID)
	return url, nil
}

// ListPlayers returns the most recently created players for the continue
// screen.
func (e *Engine) ListPlayers(ctx context.Context) ([]store.Player, error) {
	players, err := e.db.ListPlayers(ctx, 50)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}
