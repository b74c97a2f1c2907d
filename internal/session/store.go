package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TTL is the session lifetime window. Every authenticated request extends
// the window by this amount from "now" (sliding expiry).
const TTL = 24 * time.Hour

const keyPrefix = "session:"

// Store persists sessions in Redis so handlers stay stateless and instances
// can be scaled horizontally behind one Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Issue creates a new session bound to the user ID and returns the session ID.
func (s *Store) Issue(ctx context.Context, userID uint) (string, error) {
	if s.rdb == nil {
		return "", models.NewInternalError(errors.New("session store unavailable"))
	}

	sid := uuid.NewString()
	key := keyPrefix + sid
	if err := s.rdb.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), TTL).Err(); err != nil {
		return "", models.NewInternalError(err)
	}
	return sid, nil
}

// Resolve looks up the session and returns the bound user ID. The second
// return value is false when the session is unknown or expired.
func (s *Store) Resolve(ctx context.Context, sid string) (uint, bool, error) {
	if s.rdb == nil || sid == "" {
		return 0, false, nil
	}

	val, err := s.rdb.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, models.NewInternalError(err)
	}

	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false, models.NewInternalError(err)
	}
	return uint(userID), true, nil
}

// Touch resets the session expiry to TTL from now.
func (s *Store) Touch(ctx context.Context, sid string) error {
	if s.rdb == nil || sid == "" {
		return nil
	}
	if err := s.rdb.Expire(ctx, keyPrefix+sid, TTL).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Revoke deletes the session immediately. Revoking an unknown session is not
// an error.
func (s *Store) Revoke(ctx context.Context, sid string) error {
	if s.rdb == nil || sid == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
