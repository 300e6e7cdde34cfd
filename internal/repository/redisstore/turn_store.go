package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"mentor-chat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type TurnStore struct {
	rdb      *redis.Client
	maxTurns int64
	ttl      time.Duration
}

var _ contract.TurnStore = &TurnStore{}

func NewTurnStore(rdb *redis.Client, maxTurns int64, ttl time.Duration) *TurnStore {
	return &TurnStore{
		rdb:      rdb,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

// Push prepends the turn, trims the log to the configured cap and resets the
// rolling expiry. Storage order is newest-first.
func (s *TurnStore) Push(ctx context.Context, persona, mode, sessionId, role, content string) error {
	entry, err := json.Marshal(contract.Turn{
		Role:      role,
		Content:   content,
		Timestamp: float64(time.Now().UnixMilli()) / 1000,
	})
	if err != nil {
		return err
	}

	k := keyTurns(persona, mode, sessionId)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, k, entry)
	pipe.LTrim(ctx, k, 0, s.maxTurns-1)
	pipe.Expire(ctx, k, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent reads up to limit turns and returns them oldest first. Undecodable
// entries are dropped silently.
func (s *TurnStore) Recent(ctx context.Context, persona, mode, sessionId string, limit int64) ([]contract.Turn, error) {
	if limit <= 0 || limit > s.maxTurns {
		limit = s.maxTurns
	}

	raw, err := s.rdb.LRange(ctx, keyTurns(persona, mode, sessionId), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	return decodeTurns(raw), nil
}
