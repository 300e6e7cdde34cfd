package service

import (
	"context"
	"strings"
	"time"

	"mentor-chat-be/internal/entity"
	"mentor-chat-be/internal/repository/contract"
	"mentor-chat-be/pkg/embedding"
)

// FactInput is one fact to be embedded and stored.
type FactInput struct {
	Id       string
	Text     string
	Metadata map[string]interface{}
}

// IFactService is the semantic fact store access layer: it owns embedding of
// fact/query text and the (persona, mode) partitioning.
type IFactService interface {
	Write(ctx context.Context, persona, mode, sessionId string, facts []FactInput) error
	Query(ctx context.Context, persona, mode, sessionId, text string, topK int, scopedToSession bool, types []string) ([]*contract.ScoredFact, error)
}

type factService struct {
	factRepo contract.FactRepository
	embedder embedding.Provider
}

func NewFactService(factRepo contract.FactRepository, embedder embedding.Provider) IFactService {
	return &factService{
		factRepo: factRepo,
		embedder: embedder,
	}
}

// Namespace is the logical fact partition key for a persona/mode pair.
func Namespace(persona, mode string) string {
	return strings.ToLower(persona + ":" + mode)
}

func (s *factService) Write(ctx context.Context, persona, mode, sessionId string, facts []FactInput) error {
	if len(facts) == 0 {
		return nil
	}

	texts := make([]string, len(facts))
	for i, f := range facts {
		texts[i] = f.Text
	}
	vectors, err := s.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return err
	}

	now := float64(time.Now().UnixMilli()) / 1000
	entities := make([]*entity.Fact, len(facts))
	for i, f := range facts {
		factType := ""
		if t, ok := f.Metadata["type"].(string); ok {
			factType = t
		}
		entities[i] = &entity.Fact{
			Id:        f.Id,
			Namespace: Namespace(persona, mode),
			SessionId: sessionId,
			Type:      factType,
			Text:      f.Text,
			Embedding: vectors[i],
			Timestamp: now,
			Metadata:  f.Metadata,
		}
	}

	return s.factRepo.Upsert(ctx, entities)
}

func (s *factService) Query(ctx context.Context, persona, mode, sessionId, text string, topK int, scopedToSession bool, types []string) ([]*contract.ScoredFact, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	filter := contract.FactFilter{Types: types}
	if scopedToSession {
		filter.SessionId = sessionId
	}

	return s.factRepo.SearchSimilar(ctx, Namespace(persona, mode), vector, topK, filter)
}
