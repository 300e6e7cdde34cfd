package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Fact struct {
	Id        string          `gorm:"type:text;primaryKey"`
	Namespace string          `gorm:"type:text;not null;index"`
	SessionId string          `gorm:"type:text;not null;index"`
	Type      string          `gorm:"type:text;not null;index"`
	Text      string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI text-embedding-3-small uses 1536 dimensions
	Timestamp float64         `gorm:"not null"`
	Metadata  datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Fact) TableName() string {
	return "facts"
}
