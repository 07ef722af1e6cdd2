package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"dungeondelve/internal/game"
	"dungeondelve/internal/puzzle"
	"dungeondelve/internal/store"
)

func testServer(t *testing.T, mode game.PuzzleMode) *httptest.Server {
	t.Helper()
	db, err := store.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	catalog := puzzle.NewCatalog(rand.New(rand.NewPCG(7, 7)))
	engine := game.New(db, catalog, nil, mode)
	srv := httptest.NewServer(NewServer(engine).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestFullGameFlow(t *testing.T) {
	srv := testServer(t, game.ModeClassic)

	// Create a character.
	var player store.Player
	status := postJSON(t, srv.URL+"/api/game/create",
		CreatePlayerRequest{Name: "Mira"}, &player)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	if player.ID == "" || player.Level != 1 || player.MaxHealth != 150 {
		t.Fatalf("created player = %+v", player)
	}

	// Fresh state: no dungeon, no current room.
	var state game.GameState
	if status := getJSON(t, srv.URL+"/api/game/"+player.ID, &state); status != http.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	if state.Dungeon != nil || state.CurrentRoom != nil || len(state.CompletedRooms) != 0 {
		t.Fatalf("fresh state = %+v", state)
	}

	// Enter the dungeon.
	var started StartDungeonResponse
	status = postJSON(t, srv.URL+"/api/game/"+player.ID+"/start-dungeon", nil, &started)
	if status != http.StatusCreated {
		t.Fatalf("start-dungeon status = %d", status)
	}
	if started.Dungeon.Name != "Crystal Caverns" || started.CurrentRoom.RoomOrder != 1 {
		t.Fatalf("started = %+v", started)
	}

	// Starting again while a run is active conflicts.
	var gerr GameError
	status = postJSON(t, srv.URL+"/api/game/"+player.ID+"/start-dungeon", nil, &gerr)
	if status != http.StatusConflict || gerr.Type != ErrTypeConflict {
		t.Fatalf("double start = %d %+v", status, gerr)
	}

	// A wrong answer is judged but changes nothing.
	roomURL := fmt.Sprintf("%s/api/game/%s/room/%s", srv.URL, player.ID, started.CurrentRoom.ID)
	var verdict puzzle.Result
	status = postJSON(t, roomURL+"/check", CheckAnswerRequest{Answer: "definitely wrong"}, &verdict)
	if status != http.StatusOK || verdict.Solved {
		t.Fatalf("wrong answer = %d %+v", status, verdict)
	}

	// The persisted payload carries the accepted answer; submitting it solves
	// the room and advances the run.
	answer, ok := puzzle.PayloadAnswer(started.CurrentRoom.PuzzleData)
	if !ok {
		t.Fatal("entrance room payload has no answer")
	}
	status = postJSON(t, roomURL+"/check", CheckAnswerRequest{Answer: answer}, &verdict)
	if status != http.StatusOK || !verdict.Solved {
		t.Fatalf("correct answer = %d %+v", status, verdict)
	}

	if status := getJSON(t, srv.URL+"/api/game/"+player.ID, &state); status != http.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	if len(state.CompletedRooms) != 1 || state.CompletedRooms[0] != started.CurrentRoom.ID {
		t.Fatalf("completed rooms = %v", state.CompletedRooms)
	}
	if state.CurrentRoom == nil || state.CurrentRoom.RoomOrder != 2 {
		t.Fatalf("current room after solve = %+v", state.CurrentRoom)
	}
	if state.Player.Experience != 50 || state.Player.Level != 1 {
		t.Fatalf("player after solve = exp %d level %d", state.Player.Experience, state.Player.Level)
	}

	// The new character shows up on the continue screen.
	var list PlayersResponse
	if status := getJSON(t, srv.URL+"/api/game/list", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(list.Players) != 1 || list.Players[0].Name != "Mira" {
		t.Fatalf("players = %+v", list.Players)
	}
}

func TestGetPuzzleEndpoint(t *testing.T) {
	srv := testServer(t, game.ModeClassic)

	var player store.Player
	postJSON(t, srv.URL+"/api/game/create", CreatePlayerRequest{Name: "Brek"}, &player)
	var started StartDungeonResponse
	postJSON(t, srv.URL+"/api/game/"+player.ID+"/start-dungeon", nil, &started)

	var resp PuzzleResponse
	url := fmt.Sprintf("%s/api/game/%s/room/%s/puzzle", srv.URL, player.ID, started.CurrentRoom.ID)
	if status := getJSON(t, url, &resp); status != http.StatusOK {
		t.Fatalf("puzzle status = %d", status)
	}
	if resp.RoomID != started.CurrentRoom.ID || resp.Puzzle.Type != started.CurrentRoom.PuzzleType {
		t.Fatalf("puzzle response = %+v", resp)
	}
}

func TestScavengerFlowOverHTTP(t *testing.T) {
	srv := testServer(t, game.ModeScavenger)

	var player store.Player
	postJSON(t, srv.URL+"/api/game/create", CreatePlayerRequest{Name: "Mira"}, &player)
	var started StartDungeonResponse
	postJSON(t, srv.URL+"/api/game/"+player.ID+"/start-dungeon", nil, &started)

	hunt, err := puzzle.ParseScavenger(started.CurrentRoom.PuzzleData)
	if err != nil {
		t.Fatalf("parse hunt from response: %v", err)
	}

	roomURL := fmt.Sprintf("%s/api/game/%s/room/%s", srv.URL, player.ID, started.CurrentRoom.ID)

	// Correct answer without enough clues stays gated.
	var verdict puzzle.Result
	postJSON(t, roomURL+"/check", CheckAnswerRequest{Answer: hunt.Solution}, &verdict)
	if verdict.Solved {
		t.Fatalf("gate bypassed: %+v", verdict)
	}

	var found []string
	for i := 0; i < hunt.RequiredClues; i++ {
		found = append(found, hunt.Clues[i].ID)
	}
	postJSON(t, roomURL+"/check", CheckAnswerRequest{Answer: hunt.Solution, FoundClues: found}, &verdict)
	if !verdict.Solved {
		t.Fatalf("correct answer with clues rejected: %+v", verdict)
	}
}

func TestErrorShapes(t *testing.T) {
	srv := testServer(t, game.ModeClassic)

	var gerr GameError
	if status := getJSON(t, srv.URL+"/api/game/nobody", &gerr); status != http.StatusNotFound {
		t.Errorf("missing player status = %d", status)
	}
	if gerr.Type != ErrTypeNotFound || gerr.RequestID == "" {
		t.Errorf("not-found body = %+v", gerr)
	}

	gerr = GameError{}
	if status := postJSON(t, srv.URL+"/api/game/create", CreatePlayerRequest{Name: "  "}, &gerr); status != http.StatusBadRequest {
		t.Errorf("blank name status = %d", status)
	}
	if gerr.Type != ErrTypeValidation {
		t.Errorf("validation body = %+v", gerr)
	}

	// Portrait without a configured gateway is a 503.
	var player store.Player
	postJSON(t, srv.URL+"/api/game/create", CreatePlayerRequest{Name: "Mira"}, &player)
	gerr = GameError{}
	if status := postJSON(t, srv.URL+"/api/game/"+player.ID+"/portrait", nil, &gerr); status != http.StatusServiceUnavailable {
		t.Errorf("portrait status = %d", status)
	}
	if gerr.Type != ErrTypeUnavailable {
		t.Errorf("portrait body = %+v", gerr)
	}

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}
