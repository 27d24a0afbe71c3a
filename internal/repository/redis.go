package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"equipbook/internal/config"
	"equipbook/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository keeps actor sessions in redis with a TTL.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (r *RedisSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *RedisSessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.Token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}

	return nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, token string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to clear session in redis: %w", err)
	}
	return nil
}

// CheckRateLimit allows up to limit commands per user within window.
func (r *RedisSessionRepository) CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("rate_limit:%s", userID)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(limit), nil
}
