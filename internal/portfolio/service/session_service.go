package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionService manages login sessions stored in Redis with a TTL.
type SessionService interface {
	Create(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, sessionID string) (uint, error)
	Destroy(ctx context.Context, sessionID string) error
}

// NewSessionService creates a Redis-backed session service.
func NewSessionService(client *redis.Client, ttl time.Duration) SessionService {
	return &sessionService{client: client, ttl: ttl}
}

type sessionService struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *sessionService) Create(ctx context.Context, userID uint) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	sessionID := base64.RawURLEncoding.EncodeToString(raw)

	if err := s.client.Set(ctx, s.key(sessionID), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sessionID, nil
}

func (s *sessionService) Resolve(ctx context.Context, sessionID string) (uint, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	return uint(userID), nil
}

func (s *sessionService) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *sessionService) key(sessionID string) string {
	return "session:" + sessionID
}
