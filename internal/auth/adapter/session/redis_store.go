package session

import (
	"context"
	"encoding/json"
	"time"

	"mealtrack/internal/auth/config"
	"mealtrack/internal/auth/domain/model"
	"mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore persists the session in Redis so it survives process restarts
// and can be shared by several client processes of the same account.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, cfg *config.Config, log logger.Logger) *RedisStore {
	if log == nil {
		log = logger.NewLogger()
	}
	return &RedisStore{
		client: client,
		key:    cfg.SessionKey,
		ttl:    cfg.SessionTTL,
		logger: log.WithComponent("redis-session-store"),
	}
}

// Save stores the session under the configured key with the session TTL.
func (s *RedisStore) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return s.Clear(ctx)
	}

	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("Failed to serialize session", zap.Error(err))
		return err
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to store session in Redis",
			zap.String("key", s.key),
			zap.Error(err))
		return err
	}

	s.logger.Debug("Session stored in Redis",
		zap.String("key", s.key),
		zap.String("userID", session.User.UserID))
	return nil
}

// Current returns the stored session, or nil when logged out or expired.
func (s *RedisStore) Current(ctx context.Context) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to read session from Redis",
			zap.String("key", s.key),
			zap.Error(err))
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("Failed to deserialize session", zap.Error(err))
		return nil, err
	}
	return &session, nil
}

// Clear removes the stored session.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.logger.Error("Failed to clear session in Redis",
			zap.String("key", s.key),
			zap.Error(err))
		return err
	}
	return nil
}

// Ensure RedisStore implements SessionStore
var _ repository.SessionStore = (*RedisStore)(nil)
