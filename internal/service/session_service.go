package service

import (
	"context"
	"fmt"
	"time"

	"equipbook/internal/domain"
	"equipbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionService hands actor snapshots to the booking core. Identity
// itself (passwords, registration) lives outside this system; a
// session simply binds a token to whoever the caller says is signed in.
type SessionService struct {
	sessions  domain.SessionRepository
	rateLimit int
	rateWin   time.Duration
	logger    *zerolog.Logger
}

func NewSessionService(sessions domain.SessionRepository, rateLimit int, rateWindow time.Duration, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		sessions:  sessions,
		rateLimit: rateLimit,
		rateWin:   rateWindow,
		logger:    logger,
	}
}

// StartSession stores the actor snapshot and returns its token.
func (s *SessionService) StartSession(ctx context.Context, actor models.Actor) (string, error) {
	if actor.ID == "" {
		return "", fmt.Errorf("actor id is required: %w", domain.ErrValidation)
	}
	if actor.Role == "" {
		actor.Role = models.RoleUser
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		Actor:     actor,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", actor.ID).Str("role", actor.Role).Msg("session started")
	return session.Token, nil
}

// Actor resolves a token to its actor snapshot.
func (s *SessionService) Actor(ctx context.Context, token string) (models.Actor, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return models.Actor{}, err
	}
	if session == nil {
		return models.Actor{}, fmt.Errorf("unknown session: %w", domain.ErrUnauthorized)
	}
	return session.Actor, nil
}

func (s *SessionService) EndSession(ctx context.Context, token string) error {
	return s.sessions.ClearSession(ctx, token)
}

// Allow applies the per-user command rate limit.
func (s *SessionService) Allow(ctx context.Context, userID string) (bool, error) {
	return s.sessions.CheckRateLimit(ctx, userID, s.rateLimit, s.rateWin)
}
