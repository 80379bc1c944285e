package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/martinianod/chedoparti/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "session:whatsapp:"

// RedisStore keeps sessions as TTL'd JSON blobs in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, waID string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+waID).Result()
	if err == redis.Nil {
		return models.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session for %s: %w", waID, err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		// A corrupt blob is unrecoverable; start the conversation over.
		return models.NewSession(), nil
	}
	if sess.State == "" {
		sess.State = models.StateStart
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, waID string, session *models.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session for %s: %w", waID, err)
	}
	if err := s.client.Set(ctx, sessionPrefix+waID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session for %s: %w", waID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, waID string) error {
	return s.client.Del(ctx, sessionPrefix+waID).Err()
}
