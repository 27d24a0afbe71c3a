package service

import (
	"context"
	"testing"
	"time"

	"equipbook/internal/domain"
	"equipbook/internal/models"
	"equipbook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, limit int, window time.Duration) *SessionService {
	t.Helper()
	logger := zerolog.Nop()
	return NewSessionService(repository.NewMemorySessionRepository(), limit, window, &logger)
}

func TestSessionRoundTrip(t *testing.T) {
	svc := newSessionService(t, 10, time.Minute)
	ctx := context.Background()

	token, err := svc.StartSession(ctx, testUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := svc.Actor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testUser, actor)

	require.NoError(t, svc.EndSession(ctx, token))
	_, err = svc.Actor(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestStartSessionDefaultsRole(t *testing.T) {
	svc := newSessionService(t, 10, time.Minute)
	ctx := context.Background()

	token, err := svc.StartSession(ctx, models.Actor{ID: "u9", Name: "No Role"})
	require.NoError(t, err)

	actor, err := svc.Actor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, actor.Role)
}

func TestStartSessionRequiresID(t *testing.T) {
	svc := newSessionService(t, 10, time.Minute)

	_, err := svc.StartSession(context.Background(), models.Actor{Name: "ghost"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionRateLimit(t *testing.T) {
	svc := newSessionService(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := svc.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := svc.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other users keep their own budget.
	ok, err = svc.Allow(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, ok)
}
