package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/pkg/logger"
)

func TestMemory_LimitAndWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(Options{Limit: 2, Window: time.Minute})
	m.now = func() time.Time { return now }

	assert.True(t, m.Allow(ctx, "1.2.3.4"))
	assert.True(t, m.Allow(ctx, "1.2.3.4"))
	assert.False(t, m.Allow(ctx, "1.2.3.4"))
	assert.True(t, m.Allow(ctx, "5.6.7.8"))

	now = now.Add(time.Minute)
	assert.True(t, m.Allow(ctx, "1.2.3.4"))
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Options{Limit: 1, Window: time.Minute})

	assert.True(t, m.Allow(ctx, "k"))
	assert.False(t, m.Allow(ctx, "k"))
	m.Reset(ctx, "k")
	assert.True(t, m.Allow(ctx, "k"))
}

func TestRedis_LimitAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedis(client, Options{Limit: 2, Window: 15 * time.Minute, Prefix: "login:"}, logger.Discard())

	assert.True(t, r.Allow(ctx, "ip"))
	assert.True(t, r.Allow(ctx, "ip"))
	assert.False(t, r.Allow(ctx, "ip"))

	ttl := mr.TTL("login:ip")
	require.Greater(t, ttl, time.Duration(0))

	mr.FastForward(15 * time.Minute)
	assert.True(t, r.Allow(ctx, "ip"))
}

func TestRedis_FailsOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedis(client, Options{Limit: 1, Window: time.Minute}, logger.Discard())
	mr.Close()

	assert.True(t, r.Allow(ctx, "ip"))
	assert.True(t, r.Allow(ctx, "ip"))
}
