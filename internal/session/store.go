package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store holds the signed-in actor per session id. It is the only place the
// cached identity is written.
type Store interface {
	Put(ctx context.Context, sid string, a *domain.Actor, ttl time.Duration) error
	// Get returns nil, nil for unknown or expired sessions.
	Get(ctx context.Context, sid string) (*domain.Actor, error)
	// Refresh rewrites the actor of a live session, keeping its expiry.
	Refresh(ctx context.Context, sid string, a *domain.Actor) error
	Delete(ctx context.Context, sid string) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(sid string) string { return "session:" + sid }

func (s *RedisStore) Put(ctx context.Context, sid string, a *domain.Actor, ttl time.Duration) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.rdb.Set(ctx, key(sid), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	raw, err := s.rdb.Get(ctx, key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a domain.Actor
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &a, nil
}

func (s *RedisStore) Refresh(ctx context.Context, sid string, a *domain.Actor) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	// XX + KEEPTTL: never resurrects a revoked session
	err = s.rdb.SetArgs(ctx, key(sid), payload, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.rdb.Del(ctx, key(sid)).Err()
}

var _ Store = (*RedisStore)(nil)
