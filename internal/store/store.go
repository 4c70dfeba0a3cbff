// Package store is the durable half of the hub: a narrow key-value gateway
// over Redis. Entities are JSON documents in per-type hashes; offline
// notifications are per-user lists. There are no transactions; writes are
// best effort relative to in-memory state.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps any Redis failure so callers can distinguish
	// "the store broke" from "the entity is missing".
	ErrUnavailable = errors.New("store unavailable")
)

const (
	hashWorkspaces  = "workspaces"
	hashUsers       = "users"
	hashUsersByName = "users_by_name"
	hashDeals       = "deals"
	hashAnnotations = "annotations"
	hashDDItems     = "dd_items"

	notificationKeyPrefix = "notifications:"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

// Stores provides access to all store implementations backed by a single
// Redis client.
type Stores struct {
	client *redis.Client
}

func NewStores(client *redis.Client) *Stores {
	return &Stores{client: client}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return &workspaceStore{client: s.client}
}

func (s *Stores) Users() UserStore {
	return &userStore{client: s.client}
}

func (s *Stores) Deals() DealStore {
	return &dealStore{client: s.client}
}

func (s *Stores) Annotations() AnnotationStore {
	return &annotationStore{client: s.client}
}

func (s *Stores) DiligenceItems() DiligenceStore {
	return &diligenceStore{client: s.client}
}

func (s *Stores) Notifications() NotificationQueue {
	return &notificationQueue{client: s.client}
}

func (s *Stores) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Stores) Close() error {
	return s.client.Close()
}

// getEntity loads and decodes one JSON document from a hash.
func getEntity[T any](ctx context.Context, client *redis.Client, hash string, id int64) (*T, error) {
	data, err := client.HGet(ctx, hash, idField(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w: %w", hash, id, ErrUnavailable, err)
	}

	var entity T
	if err := json.Unmarshal([]byte(data), &entity); err != nil {
		return nil, fmt.Errorf("decode %s/%d: %w", hash, id, err)
	}
	return &entity, nil
}

// setEntity encodes and writes one JSON document into a hash.
func setEntity(ctx context.Context, client *redis.Client, hash string, id int64, entity any) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode %s/%d: %w", hash, id, err)
	}
	if err := client.HSet(ctx, hash, idField(id), data).Err(); err != nil {
		return fmt.Errorf("set %s/%d: %w: %w", hash, id, ErrUnavailable, err)
	}
	return nil
}

func idField(id int64) string {
	return fmt.Sprintf("%d", id)
}
