package mapper

import (
	"encoding/json"

	"mentor-chat-be/internal/entity"
	"mentor-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type FactMapper struct{}

func NewFactMapper() *FactMapper {
	return &FactMapper{}
}

func (m *FactMapper) ToEntity(f *model.Fact) *entity.Fact {
	if f == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(f.Metadata) > 0 {
		// Undecodable metadata degrades to nil rather than failing the read
		_ = json.Unmarshal(f.Metadata, &metadata)
	}

	return &entity.Fact{
		Id:        f.Id,
		Namespace: f.Namespace,
		SessionId: f.SessionId,
		Type:      f.Type,
		Text:      f.Text,
		Embedding: f.Embedding.Slice(),
		Timestamp: f.Timestamp,
		Metadata:  metadata,
	}
}

func (m *FactMapper) ToModel(f *entity.Fact) *model.Fact {
	if f == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(f.Metadata) > 0 {
		if raw, err := json.Marshal(f.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Fact{
		Id:        f.Id,
		Namespace: f.Namespace,
		SessionId: f.SessionId,
		Type:      f.Type,
		Text:      f.Text,
		Embedding: pgvector.NewVector(f.Embedding),
		Timestamp: f.Timestamp,
		Metadata:  metadata,
	}
}

func (m *FactMapper) ToModels(facts []*entity.Fact) []*model.Fact {
	models := make([]*model.Fact, len(facts))
	for i, f := range facts {
		models[i] = m.ToModel(f)
	}
	return models
}
