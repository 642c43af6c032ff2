// Package redissvc owns the Redis connection shared by the session stores.
package redissvc

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix namespaces the keys of one browser session.
const SessionKeyPrefix = "console:session:"

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*RedisService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return NewRedisService(rdb), nil
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

// SessionPrefix is the key prefix of browser session sid.
func (a *RedisService) SessionPrefix(sid string) string {
	return SessionKeyPrefix + sid + ":"
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
