// Package redisstore implements the short-term conversation stores on Redis:
// a bounded, TTL-expiring turn log and a per-session dialogue state hash.
package redisstore

import (
	"encoding/json"
	"fmt"

	"mentor-chat-be/internal/repository/contract"
)

func keyTurns(persona, mode, sessionId string) string {
	return fmt.Sprintf("session:%s:%s:%s:turns", persona, mode, sessionId)
}

func keyState(persona, mode, sessionId string) string {
	return fmt.Sprintf("session:%s:%s:%s:state", persona, mode, sessionId)
}

// decodeTurn parses one stored list entry. Historical writes are not
// uniform (older clients stored slightly different JSON shapes), so a
// malformed entry yields ok=false and is skipped by the caller instead of
// failing the whole read.
func decodeTurn(raw string) (contract.Turn, bool) {
	var t contract.Turn
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return contract.Turn{}, false
	}
	if t.Role == "" {
		return contract.Turn{}, false
	}
	return t, true
}

// decodeTurns decodes raw entries stored newest-first and returns them in
// chronological order.
func decodeTurns(raw []string) []contract.Turn {
	turns := make([]contract.Turn, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		if t, ok := decodeTurn(raw[i]); ok {
			turns = append(turns, t)
		}
	}
	return turns
}
