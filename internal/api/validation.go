package api

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 50

// ValidateCreatePlayerRequest validates a character creation request. Stat
// bounds are enforced by the engine; this only rejects requests that are
// malformed at the transport level.
func ValidateCreatePlayerRequest(req *CreatePlayerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(req.Name) > maxNameLength {
		return fmt.Errorf("name too long (max %d characters)", maxNameLength)
	}
	return nil
}

// ValidateCheckAnswerRequest validates an answer submission.
func ValidateCheckAnswerRequest(req *CheckAnswerRequest) error {
	if strings.TrimSpace(req.Answer) == "" {
		return fmt.Errorf("answer is required")
	}
	return nil
}
