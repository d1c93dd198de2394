package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meikuraledutech/skilltree"
	backend "github.com/redis/go-redis/v9"
)

// DefaultTreeID names the tree when WithTreeID is not given.
const DefaultTreeID = "skill-tree-data"

// Store keeps the snapshot of one tree as a JSON value in Redis.
type Store struct {
	client *backend.Client
	prefix string
	treeID string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the stored snapshot. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTreeID selects which tree the store reads and writes.
func WithTreeID(id string) Option {
	return func(s *Store) {
		s.treeID = id
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "skilltree:",
		treeID: DefaultTreeID,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Key returns the Redis key holding the snapshot.
func (s *Store) Key() string {
	return s.prefix + s.treeID
}

// Load reads the snapshot. Returns nil, nil if the key is absent.
func (s *Store) Load(ctx context.Context) (*skilltree.Snapshot, error) {
	val, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("skilltree: get from redis: %w", err)
	}

	var snap skilltree.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("skilltree: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot, refreshing the TTL if one is set.
func (s *Store) Save(ctx context.Context, snap *skilltree.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("skilltree: encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("skilltree: save to redis: %w", err)
	}
	return nil
}

// Delete removes the stored snapshot.
func (s *Store) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.Key()).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
