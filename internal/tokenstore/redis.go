package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore guarda o token numa chave Redis. Quando o token é um JWT com
// exp, a chave expira junto com ele.
type RedisStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "findcut:" + DefaultKey
	}
	return &RedisStore{client: client, key: key, now: time.Now}
}

func (r *RedisStore) Load(ctx context.Context) (string, error) {
	v, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: redis get: %w", err)
	}
	return v, nil
}

func (r *RedisStore) Save(ctx context.Context, token string) error {
	var ttl time.Duration
	if claims, err := ParseClaims(token); err == nil && !claims.ExpiresAt.IsZero() {
		ttl = claims.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Clear(ctx)
		}
	}

	if err := r.client.Set(ctx, r.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis del: %w", err)
	}
	return nil
}
