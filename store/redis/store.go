// Package redis provides a session store backed by Redis.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/zoobzio/boomerang"
)

// DefaultTTL bounds how long redirect state outlives the request that wrote
// it.
const DefaultTTL = 10 * time.Minute

// Store implements boomerang.Sessions using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored keys. Zero disables expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "boomerang:session:",
		ttl:    DefaultTTL,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Session returns the session for id.
func (s *Store) Session(id string) boomerang.Session {
	sum := sha256.Sum256([]byte(id))
	return &session{store: s, base: s.prefix + hex.EncodeToString(sum[:]) + ":"}
}

// Ping checks the connection to Redis.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// session scopes keys to one session. Session ids are hashed so they never
// appear in Redis key names.
type session struct {
	store *Store
	base  string
}

func (s *session) key(name string) string {
	return s.base + name
}

func (s *session) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.store.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, boomerang.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

func (s *session) Set(ctx context.Context, key string, data []byte) error {
	if err := s.store.client.Set(ctx, s.key(key), data, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *session) Delete(ctx context.Context, key string) error {
	if err := s.store.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}
