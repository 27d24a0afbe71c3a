package repository

import (
	"context"
	"sync"
	"time"

	"equipbook/internal/models"

	"golang.org/x/time/rate"
)

// MemorySessionRepository is the in-process fallback session store.
// Rate limiting uses a token bucket per user.
type MemorySessionRepository struct {
	sessions sync.Map
	limiters sync.Map
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	return val.(*models.Session), nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	r.sessions.Store(session.Token, session)
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	lim := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	if actual, loaded := r.limiters.LoadOrStore(userID, lim); loaded {
		lim = actual.(*rate.Limiter)
	}

	return lim.Allow(), nil
}
