package server

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

var errSessionNotFound = fmt.Errorf("session not found")

// NewRedisClient builds a Redis client from REDIS_ADDR and REDIS_PASSWORD.
// The connection is verified with a short ping so startup fails fast when
// Redis is unreachable.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// sessionClient is the slice of the redis API the session store uses.
type sessionClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessions stores bearer tokens in Redis with a sliding TTL. Tokens are
// opaque UUIDs, the value is the employee id.
type RedisSessions struct {
	client sessionClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSessions(client sessionClient, ttl time.Duration, logger *zap.Logger) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl, logger: logger}
}

func (s *RedisSessions) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token
	if err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *RedisSessions) Resolve(ctx context.Context, token string) (int64, error) {
	key := sessionKeyPrefix + token

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, errSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errSessionNotFound
	}

	// Refresh the TTL on every authenticated request. A failed refresh does
	// not invalidate the session, but it must not pass silently either: the
	// sliding window stops sliding.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		s.logger.Warn("session ttl refresh failed", zap.Error(err))
	}
	return userID, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
