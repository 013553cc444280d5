package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeSessionClient answers like a single-key redis for session tests.
type fakeSessionClient struct {
	values map[string]string

	expireErr   error
	expireCalls int
	lastTTL     time.Duration
}

func newFakeSessionClient() *fakeSessionClient {
	return &fakeSessionClient{values: map[string]string{}}
}

func (c *fakeSessionClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.values[key] = value.(string)
	return redis.NewStatusCmd(ctx)
}

func (c *fakeSessionClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := c.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (c *fakeSessionClient) Expire(ctx context.Context, _ string, ttl time.Duration) *redis.BoolCmd {
	c.expireCalls++
	c.lastTTL = ttl
	cmd := redis.NewBoolCmd(ctx)
	if c.expireErr != nil {
		cmd.SetErr(c.expireErr)
		return cmd
	}
	cmd.SetVal(true)
	return cmd
}

func (c *fakeSessionClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.values, key)
	}
	return redis.NewIntCmd(ctx)
}

func TestRedisSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeSessionClient()
	sessions := NewRedisSessions(client, time.Hour, zap.NewNop())

	token, err := sessions.Create(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	// every resolve slides the TTL window forward
	assert.Equal(t, 1, client.expireCalls)
	assert.Equal(t, time.Hour, client.lastTTL)

	require.NoError(t, sessions.Delete(ctx, token))
	_, err = sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestRedisSessionsResolveUnknownToken(t *testing.T) {
	sessions := NewRedisSessions(newFakeSessionClient(), time.Hour, zap.NewNop())

	_, err := sessions.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestRedisSessionsExpireFailureIsLoggedNotFatal(t *testing.T) {
	ctx := context.Background()
	client := newFakeSessionClient()
	client.expireErr = errors.New("connection reset")

	core, logs := observer.New(zap.WarnLevel)
	sessions := NewRedisSessions(client, time.Hour, zap.New(core))

	token, err := sessions.Create(ctx, 7)
	require.NoError(t, err)

	userID, err := sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	entries := logs.FilterMessage("session ttl refresh failed").All()
	require.Len(t, entries, 1)
}
