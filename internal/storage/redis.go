package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	banKeyPrefix  = "ban:"
	userKeyPrefix = "user:"

	// SessionChannel is the Redis Pub/Sub channel carrying session lifecycle events.
	SessionChannel = "roulette:sessions"

	minReputation = config.MinReputation
	maxReputation = config.MaxReputation
)

// IsUserBanned checks the ban key in Redis (fast path for the join gate).
func (s *Service) IsUserBanned(ctx context.Context, userID string) (bool, error) {
	if s.Redis == nil {
		return false, nil
	}
	status, err := s.Redis.Get(ctx, banKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// SetBan stores a ban key that expires after duration (0 = no expiry).
func (s *Service) SetBan(ctx context.Context, userID string, duration time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(ctx, banKeyPrefix+userID, "active", duration).Err()
}

// ClearBan removes the ban key.
func (s *Service) ClearBan(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, banKeyPrefix+userID).Err()
}

// PublishSessionEvent publishes the event on SessionChannel.
func (s *Service) PublishSessionEvent(ctx context.Context, event SessionEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, SessionChannel, payload).Err()
}

func (s *Service) cachedUser(ctx context.Context, userID string) (*models.User, bool) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.Redis.Get(ctx, userKeyPrefix+userID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("user cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (s *Service) cacheUser(ctx context.Context, user *models.User) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, userKeyPrefix+user.ID, raw, s.CacheTTL).Err(); err != nil {
		s.log.Warn("user cache write failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *Service) forgetUser(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, userKeyPrefix+userID).Err(); err != nil {
		s.log.Warn("user cache delete failed", zap.String("user_id", userID), zap.Error(err))
	}
}
