package repository

import (
	"context"
	"testing"
	"time"

	"equipbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	got, err := repo.GetSession(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	session := &models.Session{Token: "t1", Actor: models.Actor{ID: "u1", Role: models.RoleAdmin}}
	require.NoError(t, repo.SetSession(ctx, session))

	got, err = repo.GetSession(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleAdmin, got.Actor.Role)

	require.NoError(t, repo.ClearSession(ctx, "t1"))
	got, err = repo.GetSession(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRateLimit(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "u1", 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, "u1", 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, "u2", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimitZeroLimit(t *testing.T) {
	repo := NewMemorySessionRepository()

	allowed, err := repo.CheckRateLimit(context.Background(), "u1", 0, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
