package implementation

import (
	"context"

	"mentor-chat-be/internal/entity"
	"mentor-chat-be/internal/mapper"
	"mentor-chat-be/internal/model"
	"mentor-chat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FactMapper
}

func NewFactRepository(db *gorm.DB) contract.FactRepository {
	return &FactRepositoryImpl{
		db:     db,
		mapper: mapper.NewFactMapper(),
	}
}

// Upsert writes facts with ON CONFLICT (id) DO UPDATE so a retried write of
// the same fact id is idempotent.
func (r *FactRepositoryImpl) Upsert(ctx context.Context, facts []*entity.Fact) error {
	if len(facts) == 0 {
		return nil
	}
	models := r.mapper.ToModels(facts)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&models).Error
}

// SearchSimilar ranks facts in a namespace by cosine similarity.
// Cosine distance in pgvector is 1 - cosine_similarity, so the score is
// computed as 1 - (embedding <=> query_vector).
func (r *FactRepositoryImpl) SearchSimilar(ctx context.Context, namespace string, embedding []float32, limit int, filter contract.FactFilter) ([]*contract.ScoredFact, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.Fact
		Score float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("facts").
		Select("facts.*, 1 - (embedding <=> ?) as score", queryVector).
		Where("namespace = ?", namespace)

	if filter.SessionId != "" {
		query = query.Where("session_id = ?", filter.SessionId)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}

	err := query.
		Order("score DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFact, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFact{
			Fact:  r.mapper.ToEntity(&res.Fact),
			Score: res.Score,
		}
	}
	return scored, nil
}
