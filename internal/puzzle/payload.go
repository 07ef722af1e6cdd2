package puzzle

import (
	"encoding/json"
	"fmt"
)

// The room record persists a puzzle as a JSON object. For simple puzzles the
// shape is the presentation data plus an "answer" field; scavenger hunts
// persist the whole hunt. Game state is reconstructed from this payload
// across sessions, so the field names here are a wire format.

// EncodePayload flattens a simple puzzle into its persisted form.
func EncodePayload(p Puzzle) map[string]any {
	payload := make(map[string]any, len(p.Data)+1)
	for k, v := range p.Data {
		payload[k] = v
	}
	payload["answer"] = p.Solution
	return payload
}

// PayloadAnswer extracts the persisted answer from a simple puzzle payload.
func PayloadAnswer(payload map[string]any) (string, bool) {
	answer, ok := payload["answer"].(string)
	return answer, ok
}

// EncodeScavenger converts a hunt into its persisted form.
func EncodeScavenger(h ScavengerHunt) (map[string]any, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode scavenger hunt: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("encode scavenger hunt: %w", err)
	}
	return payload, nil
}

// ParseScavenger reconstructs a hunt from a persisted room payload.
func ParseScavenger(payload map[string]any) (ScavengerHunt, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ScavengerHunt{}, fmt.Errorf("parse scavenger hunt: %w", err)
	}
	var h ScavengerHunt
	if err := json.Unmarshal(raw, &h); err != nil {
		return ScavengerHunt{}, fmt.Errorf("parse scavenger hunt: %w", err)
	}
	if h.Solution == "" || len(h.Clues) == 0 {
		return ScavengerHunt{}, fmt.Errorf("parse scavenger hunt: payload missing clues or solution")
	}
	return h, nil
}
