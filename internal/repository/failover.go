package repository

import (
	"context"
	"sync/atomic"
	"time"

	"equipbook/internal/domain"
	"equipbook/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository serves from the primary store until it
// errors, then falls back to the secondary and retries the primary
// after a cooldown.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryCooldown = time.Minute

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) shouldRetryPrimary() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryCooldown
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, token)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	} else if r.shouldRetryPrimary() {
		session, err := r.primary.GetSession(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetSession(ctx, token)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, token)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, token)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
