// Package oauthstate keeps single-use CSRF state tokens for the OAuth connect flow.
package oauthstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 10 * time.Minute

var ErrInvalidState = errors.New("invalid or expired oauth state")

type Store struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl, prefix: "oauth:state:"}
}

// Issue creates a new state token bound to owner.
func (s *Store) Issue(ctx context.Context, owner string) (string, error) {
	state := uuid.NewString()

	ok, err := s.rdb.SetNX(ctx, s.prefix+state, owner, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("failed to store oauth state: duplicate token")
	}
	return state, nil
}

// Consume validates and deletes state. A token can be consumed once, by the
// owner it was issued to.
func (s *Store) Consume(ctx context.Context, state, owner string) error {
	if state == "" {
		return ErrInvalidState
	}

	stored, err := s.rdb.GetDel(ctx, s.prefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("failed to read oauth state: %w", err)
	}
	if stored != owner {
		return ErrInvalidState
	}
	return nil
}
