package service

import (
	"context"
	"testing"

	"mentor-chat-be/internal/entity"
	"mentor-chat-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFactRepo struct {
	upserted   []*entity.Fact
	namespace  string
	limit      int
	lastFilter contract.FactFilter
	hits       []*contract.ScoredFact
}

func (f *fakeFactRepo) Upsert(_ context.Context, facts []*entity.Fact) error {
	f.upserted = append(f.upserted, facts...)
	return nil
}

func (f *fakeFactRepo) SearchSimilar(_ context.Context, namespace string, _ []float32, limit int, filter contract.FactFilter) ([]*contract.ScoredFact, error) {
	f.namespace = namespace
	f.limit = limit
	f.lastFilter = filter
	return f.hits, nil
}

type fakeEmbedder struct {
	dim int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, f.dim), nil
}

func (f *fakeEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "saint-paul:friend", Namespace("Saint-Paul", "Friend"))
}

func TestFactServiceWrite(t *testing.T) {
	repo := &fakeFactRepo{}
	svc := NewFactService(repo, &fakeEmbedder{dim: 4})

	err := svc.Write(context.Background(), "saint-paul", "friend", "s1", []FactInput{
		{
			Id:   "fact-1",
			Text: "Prefers morning prayer",
			Metadata: map[string]interface{}{
				"type":   "advice_fact",
				"source": "conversation",
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.upserted, 1)
	fact := repo.upserted[0]
	assert.Equal(t, "fact-1", fact.Id)
	assert.Equal(t, "saint-paul:friend", fact.Namespace)
	assert.Equal(t, "s1", fact.SessionId)
	assert.Equal(t, "advice_fact", fact.Type)
	assert.Len(t, fact.Embedding, 4)
	assert.NotZero(t, fact.Timestamp)
}

func TestFactServiceWriteNoFacts(t *testing.T) {
	repo := &fakeFactRepo{}
	svc := NewFactService(repo, &fakeEmbedder{dim: 4})

	require.NoError(t, svc.Write(context.Background(), "saint-paul", "friend", "s1", nil))
	assert.Empty(t, repo.upserted)
}

func TestFactServiceQueryScoping(t *testing.T) {
	repo := &fakeFactRepo{}
	svc := NewFactService(repo, &fakeEmbedder{dim: 4})

	_, err := svc.Query(context.Background(), "Saint-Paul", "Friend", "s1", "friendship", 2, true, []string{"advice_fact"})
	require.NoError(t, err)

	assert.Equal(t, "saint-paul:friend", repo.namespace)
	assert.Equal(t, 2, repo.limit)
	assert.Equal(t, "s1", repo.lastFilter.SessionId)
	assert.Equal(t, []string{"advice_fact"}, repo.lastFilter.Types)

	_, err = svc.Query(context.Background(), "saint-paul", "friend", "s1", "friendship", 1, false, nil)
	require.NoError(t, err)

	assert.Empty(t, repo.lastFilter.SessionId, "unscoped query must not filter by session")
}
