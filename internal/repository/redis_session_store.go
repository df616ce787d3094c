package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
)

type RedisSessionStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "payways:session:",
	}
}

func (r *RedisSessionStore) Put(ctx context.Context, token, email string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+token, email, ttl).Err()
}

func (r *RedisSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	email, err := r.client.Get(ctx, r.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", interfaces.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func (r *RedisSessionStore) Remove(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}
