package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (and creates if needed) a SQLite database at path. Use
// ":memory:" for tests.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL gives readers a consistent view while a write is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func marshalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(raw), nil
}

func unmarshalJSON(raw string, target any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- players ---

// CreatePlayer inserts a player, assigning a UUID if the ID is empty.
func (s *SQLiteDB) CreatePlayer(ctx context.Context, p *Player) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	inventory, err := marshalJSON(p.Inventory)
	if err != nil {
		return err
	}
	appearance, err := marshalJSON(p.Appearance)
	if err != nil {
		return err
	}

	query := `INSERT INTO players (
		id, name, level, experience, health, max_health,
		strength, intelligence, agility, wisdom, inventory, appearance
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Level, p.Experience, p.Health, p.MaxHealth,
		p.Strength, p.Intelligence, p.Agility, p.Wisdom, inventory, appearance,
	)
	return err
}

const playerColumns = `id, name, level, experience, health, max_health,
	strength, intelligence, agility, wisdom, inventory, appearance, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var inventory, appearance string
	err := row.Scan(
		&p.ID, &p.Name, &p.Level, &p.Experience, &p.Health, &p.MaxHealth,
		&p.Strength, &p.Intelligence, &p.Agility, &p.Wisdom,
		&inventory, &appearance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Inventory = []string{}
	p.Appearance = map[string]any{}
	if err := unmarshalJSON(inventory, &p.Inventory); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(appearance, &p.Appearance); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayer retrieves a player by ID.
func (s *SQLiteDB) GetPlayer(ctx context.Context, id string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

// UpdatePlayer writes the player's mutable fields back.
func (s *SQLiteDB) UpdatePlayer(ctx context.Context, p *Player) error {
	inventory, err := marshalJSON(p.Inventory)
	if err != nil {
		return err
	}
	appearance, err := marshalJSON(p.Appearance)
	if err != nil {
		return err
	}
	query := `UPDATE players SET
		name = ?, level = ?, experience = ?, health = ?, max_health = ?,
		strength = ?, intelligence = ?, agility = ?, wisdom = ?,
		inventory = ?, appearance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	_, err = s.db.ExecContext(ctx, query,
		p.Name, p.Level, p.Experience, p.Health, p.MaxHealth,
		p.Strength, p.Intelligence, p.Agility, p.Wisdom,
		inventory, appearance, p.ID,
	)
	return err
}

// ListPlayers returns up to limit players, most recently created first.
func (s *SQLiteDB) ListPlayers(ctx context.Context, limit int) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// --- dungeons ---

// CreateDungeon inserts a dungeon, assigning a UUID if the ID is empty.
func (s *SQLiteDB) CreateDungeon(ctx context.Context, d *Dungeon) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dungeons (id, name, level, description, image_url, is_completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Level, d.Description, nullable(d.ImageURL), d.IsCompleted,
	)
	return err
}

// GetDungeon retrieves a dungeon by ID.
func (s *SQLiteDB) GetDungeon(ctx context.Context, id string) (*Dungeon, error) {
	var d Dungeon
	var imageURL sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, level, description, image_url, is_completed, created_at
		 FROM dungeons WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Level, &d.Description, &imageURL, &d.IsCompleted, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.ImageURL = imageURL.String
	return &d, nil
}

// UpdateDungeon writes the dungeon's mutable fields (image URL, completion).
func (s *SQLiteDB) UpdateDungeon(ctx context.Context, d *Dungeon) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE dungeons SET name = ?, level = ?, description = ?, image_url = ?, is_completed = ?
		 WHERE id = ?`,
		d.Name, d.Level, d.Description, nullable(d.ImageURL), d.IsCompleted, d.ID,
	)
	return err
}

// --- rooms ---

const roomColumns = `id, dungeon_id, name, description, image_url,
	puzzle_type, puzzle_data, is_completed, room_order, created_at`

// CreateRoom inserts a room, assigning a UUID if the ID is empty.
func (s *SQLiteDB) CreateRoom(ctx context.Context, r *Room) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	puzzleData, err := marshalJSON(r.PuzzleData)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, dungeon_id, name, description, image_url,
			puzzle_type, puzzle_data, is_completed, room_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.DungeonID, r.Name, r.Description, nullable(r.ImageURL),
		nullable(r.PuzzleType), puzzleData, r.IsCompleted, r.RoomOrder,
	)
	return err
}

func scanRoom(row interface{ Scan(...any) error }) (*Room, error) {
	var r Room
	var imageURL, puzzleType, puzzleData sql.NullString
	err := row.Scan(
		&r.ID, &r.DungeonID, &r.Name, &r.Description, &imageURL,
		&puzzleType, &puzzleData, &r.IsCompleted, &r.RoomOrder, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.ImageURL = imageURL.String
	r.PuzzleType = puzzleType.String
	if puzzleData.Valid {
		r.PuzzleData = map[string]any{}
		if err := unmarshalJSON(puzzleData.String, &r.PuzzleData); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// GetRoom retrieves a room by ID.
func (s *SQLiteDB) GetRoom(ctx context.Context, id string) (*Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// UpdateRoom writes the room's mutable fields back.
func (s *SQLiteDB) UpdateRoom(ctx context.Context, r *Room) error {
	puzzleData, err := marshalJSON(r.PuzzleData)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE rooms SET name = ?, description = ?, image_url = ?,
			puzzle_type = ?, puzzle_data = ?, is_completed = ?
		 WHERE id = ?`,
		r.Name, r.Description, nullable(r.ImageURL),
		nullable(r.PuzzleType), puzzleData, r.IsCompleted, r.ID,
	)
	return err
}

// GetRoomByOrder does the point lookup "room in dungeon X with order Y".
// At most one match exists per the unique (dungeon_id, room_order) index.
func (s *SQLiteDB) GetRoomByOrder(ctx context.Context, dungeonID string, order int) (*Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE dungeon_id = ? AND room_order = ?`,
		dungeonID, order)
	return scanRoom(row)
}

// --- player progress ---

// CreateProgress inserts a progress record, assigning a UUID if needed.
func (s *SQLiteDB) CreateProgress(ctx context.Context, pp *PlayerProgress) error {
	if pp.ID == "" {
		pp.ID = uuid.New().String()
	}
	completed, err := marshalJSON(pp.CompletedRooms)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO player_progress (id, player_id, dungeon_id, current_room_id, completed_rooms)
		 VALUES (?, ?, ?, ?, ?)`,
		pp.ID, pp.PlayerID, nullable(pp.DungeonID), nullable(pp.CurrentRoomID), completed,
	)
	return err
}

// GetProgressByPlayer retrieves the progress record for a player.
func (s *SQLiteDB) GetProgressByPlayer(ctx context.Context, playerID string) (*PlayerProgress, error) {
	var pp PlayerProgress
	var dungeonID, currentRoomID sql.NullString
	var completed string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, player_id, dungeon_id, current_room_id, completed_rooms, created_at, updated_at
		 FROM player_progress WHERE player_id = ?`, playerID,
	).Scan(&pp.ID, &pp.PlayerID, &dungeonID, &currentRoomID, &completed, &pp.CreatedAt, &pp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	pp.DungeonID = dungeonID.String
	pp.CurrentRoomID = currentRoomID.String
	pp.CompletedRooms = []string{}
	if err := unmarshalJSON(completed, &pp.CompletedRooms); err != nil {
		return nil, err
	}
	return &pp, nil
}

// UpdateProgress writes the progress record's mutable fields back.
func (s *SQLiteDB) UpdateProgress(ctx context.Context, pp *PlayerProgress) error {
	completed, err := marshalJSON(pp.CompletedRooms)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE player_progress SET dungeon_id = ?, current_room_id = ?,
			completed_rooms = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		nullable(pp.DungeonID), nullable(pp.CurrentRoomID), completed, pp.ID,
	)
	return err
}
