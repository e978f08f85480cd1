package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"

	verifyTTL = 24 * time.Hour
)

// Key prefixes inside the Redis database the store owns.
const (
	sessionPrefix = "session:"
	verifyPrefix  = "verify:"
)

// SessionStore wraps Redis for session and verification-token management.
type SessionStore struct {
	rdb *redis.Client
}

// DialSessionStore connects to Redis, verifies the connection and returns a
// session store bound to the given logical database.
func DialSessionStore(ctx context.Context, addr, password string, db int) (*SessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &SessionStore{rdb: rdb}, nil
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}

// Create stores a new session mapping sessionID -> userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, sessionPrefix+sid, userID, SessionTTL).Err()
	return sid, err
}

// Get returns the userID for a session, or "" if not found / expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

// CreateVerifyToken mints a one-shot email-verification token for a user.
func (s *SessionStore) CreateVerifyToken(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, verifyPrefix+token, userID, verifyTTL).Err()
	return token, err
}

// ConsumeVerifyToken resolves and deletes a verification token, returning
// the userID it was minted for, or "" if unknown / expired.
func (s *SessionStore) ConsumeVerifyToken(ctx context.Context, token string) (string, error) {
	key := verifyPrefix + token
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return val, nil
}
