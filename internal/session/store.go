// Package session keeps the registry of live sign-in sessions in Redis. A token
// is only honoured while its session key exists, which makes sign-out immediate.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "travelcrm:session:"

// ErrStore wraps failures talking to Redis.
var ErrStore = errors.New("session store error")

// Store records which sessions are currently valid.
type Store interface {
	Create(ctx context.Context, sessionID, accountID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *redisStore) Create(ctx context.Context, sessionID, accountID string, ttl time.Duration) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", ErrStore)
	}
	if err := s.client.Set(ctx, key(sessionID), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: creating session: %v", ErrStore, err)
	}
	return nil
}

func (s *redisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: checking session: %v", ErrStore, err)
	}
	return n > 0, nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (s *redisStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: revoking session: %v", ErrStore, err)
	}
	return nil
}
