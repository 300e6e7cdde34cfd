package entity

// Fact is a short reusable statement distilled from a prior advice turn,
// stored with its embedding for long-term recall. Facts are insert-only;
// upsert by id exists so a retried write is idempotent.
type Fact struct {
	Id        string
	Namespace string // lower-cased "{persona}:{mode}" partition key
	SessionId string
	Type      string // "advice_fact" | "session_summary"
	Text      string
	Embedding []float32
	Timestamp float64 // unix seconds at write time
	Metadata  map[string]interface{}
}
