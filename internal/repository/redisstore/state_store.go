package redisstore

import (
	"context"
	"time"

	"mentor-chat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type StateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionStateStore = &StateStore{}

func NewStateStore(rdb *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Get returns the session's dialogue state. A missing record (or missing
// fields) yields the defaults: no prior shape, new topic.
func (s *StateStore) Get(ctx context.Context, persona, mode, sessionId string) (contract.SessionState, error) {
	vals, err := s.rdb.HGetAll(ctx, keyState(persona, mode, sessionId)).Result()
	if err != nil {
		return contract.SessionState{}, err
	}

	newTopic := true
	if v, ok := vals["new_topic"]; ok {
		newTopic = v == "true"
	}

	return contract.SessionState{
		LastAiShape: vals["last_ai_shape"],
		NewTopic:    newTopic,
	}, nil
}

// Set overwrites both fields and refreshes the TTL.
func (s *StateStore) Set(ctx context.Context, persona, mode, sessionId, lastAiShape string, newTopic bool) error {
	nt := "false"
	if newTopic {
		nt = "true"
	}

	k := keyState(persona, mode, sessionId)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, k, "last_ai_shape", lastAiShape, "new_topic", nt)
	pipe.Expire(ctx, k, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
