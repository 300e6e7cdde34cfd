package contract

import "context"

// Turn is one conversation entry in a session's short-term log.
type Turn struct {
	Role      string  `json:"role"` // "user" | "assistant" | "system"
	Content   string  `json:"content"`
	Timestamp float64 `json:"t"` // unix seconds at write time
}

// SessionState tracks the dialogue phase of one (persona, mode, session).
type SessionState struct {
	LastAiShape string // "" | "clarify" | "advise"
	NewTopic    bool
}

// TurnStore is the bounded, TTL-expiring ordered log of conversation turns.
type TurnStore interface {
	// Push appends a timestamped turn, truncates the log to its cap, and
	// refreshes the TTL.
	Push(ctx context.Context, persona, mode, sessionId, role, content string) error

	// Recent returns up to limit turns in chronological order. Entries that
	// cannot be decoded are skipped, not surfaced as errors.
	Recent(ctx context.Context, persona, mode, sessionId string, limit int64) ([]Turn, error)
}

// SessionStateStore is the small per-session phase record.
type SessionStateStore interface {
	// Get returns the stored state, defaulting to {LastAiShape: "", NewTopic: true}
	// when no record exists.
	Get(ctx context.Context, persona, mode, sessionId string) (SessionState, error)

	// Set overwrites both fields and refreshes the TTL.
	Set(ctx context.Context, persona, mode, sessionId, lastAiShape string, newTopic bool) error
}
