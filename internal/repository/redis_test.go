package repository

import (
	"context"
	"testing"
	"time"

	"equipbook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepository(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSessionRepository(client, ttl), mr
}

func TestRedisSessionRoundTrip(t *testing.T) {
	repo, _ := newRedisRepository(t, time.Hour)
	ctx := context.Background()

	session := &models.Session{
		Token:     "tok-1",
		Actor:     models.Actor{ID: "u1", Name: "Alex", Email: "alex@school.test", Role: models.RoleUser},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SetSession(ctx, session))

	got, err := repo.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.Actor, got.Actor)

	require.NoError(t, repo.ClearSession(ctx, "tok-1"))
	got, err = repo.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionExpiry(t *testing.T) {
	repo, mr := newRedisRepository(t, time.Minute)
	ctx := context.Background()

	session := &models.Session{Token: "tok-2", Actor: models.Actor{ID: "u2"}}
	require.NoError(t, repo.SetSession(ctx, session))

	mr.FastForward(2 * time.Minute)

	got, err := repo.GetSession(ctx, "tok-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRateLimit(t *testing.T) {
	repo, mr := newRedisRepository(t, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "u1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, "u1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// The window resets the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = repo.CheckRateLimit(ctx, "u1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
