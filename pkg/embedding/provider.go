package embedding

import "context"

// Provider defines the interface for generating text embeddings
type Provider interface {
	// Embed returns the embedding vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedMany returns one embedding vector per input text, in input order
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}
