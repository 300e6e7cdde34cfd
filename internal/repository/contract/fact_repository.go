package contract

import (
	"context"

	"mentor-chat-be/internal/entity"
)

// FactFilter narrows a similarity search. Zero values mean "no filter".
type FactFilter struct {
	SessionId string   // restrict to one session's facts
	Types     []string // restrict to these fact types
}

// ScoredFact is a search hit with its cosine similarity score.
type ScoredFact struct {
	Fact  *entity.Fact
	Score float64
}

type FactRepository interface {
	// Upsert inserts the facts, replacing any existing rows with the same id.
	Upsert(ctx context.Context, facts []*entity.Fact) error

	// SearchSimilar returns the top-k facts in the namespace nearest to the
	// query embedding by cosine similarity, best first.
	SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int, filter FactFilter) ([]*ScoredFact, error)
}
