package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gilbertouk/gamer-support/internal/crypto"
)

// RedisStore keeps a per-user set of token digests plus a reverse lookup
// key per digest. Both expire with the refresh-token TTL, so stale
// sessions age out without a sweeper.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func userKey(userID string) string {
	return "sessions:user:" + userID
}

func tokenKey(hash string) string {
	return "sessions:token:" + hash
}

func (s *RedisStore) Save(ctx context.Context, userID, token string) error {
	hash := crypto.HashToken(token)
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, userKey(userID), hash)
	pipe.Expire(ctx, userKey(userID), s.ttl)
	pipe.Set(ctx, tokenKey(hash), userID, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Find(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKey(crypto.HashToken(token))).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisStore) TokensByUser(ctx context.Context, userID string) ([]string, error) {
	hashes, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) error {
	hashes, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, tokenKey(hash))
	}
	keys = append(keys, userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}
