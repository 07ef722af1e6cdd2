package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleCreatePlayer creates a character with an empty progress record.
func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format")
		return
	}
	if err := ValidateCreatePlayerRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}

	player, err := s.engine.CreatePlayer(r.Context(), req.Name, req.Appearance, req.Stats)
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, player)
}

// handleListPlayers returns recent characters for the continue screen.
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.engine.ListPlayers(r.Context())
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlayersResponse{Players: players})
}

// handleGameState assembles the full state view for one player.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.GetGameState(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// handleStartDungeon creates the dungeon and its rooms and moves the player
// into the entrance.
func (s *Server) handleStartDungeon(w http.ResponseWriter, r *http.Request) {
	dungeon, first, err := s.engine.StartDungeon(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, StartDungeonResponse{Dungeon: dungeon, CurrentRoom: first})
}

// handlePortrait commissions a character portrait. Unlike room art this is
// user-initiated, so gateway errors surface as 503.
func (s *Server) handlePortrait(w http.ResponseWriter, r *http.Request) {
	url, err := s.engine.GeneratePortrait(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PortraitResponse{PortraitURL: url})
}

// handleGetPuzzle returns the puzzle view for a room.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	p, err := s.engine.GetPuzzleForRoom(r.Context(), roomID)
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PuzzleResponse{RoomID: roomID, Puzzle: p})
}

// handleCheckAnswer judges a submitted answer; a solved verdict completes the
// room as a side effect.
func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req CheckAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format")
		return
	}
	if err := ValidateCheckAnswerRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}

	result, err := s.engine.CheckAnswer(r.Context(),
		chi.URLParam(r, "playerID"), chi.URLParam(r, "roomID"), req.Answer, req.FoundClues)
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleCompleteRoom marks a room done without judging an answer.
func (s *Server) handleCompleteRoom(w http.ResponseWriter, r *http.Request) {
	progress, err := s.engine.CompleteRoom(r.Context(),
		chi.URLParam(r, "playerID"), chi.URLParam(r, "roomID"))
	if err != nil {
		s.handleEngineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, progress)
}
