package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type userStore struct {
	client *redis.Client
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getEntity[model.User](ctx, s.client, hashUsers, id)
}

// GetByName resolves a user through the name index. Used for @mention
// resolution, so name lookups must stay cheap.
func (s *userStore) GetByName(ctx context.Context, name string) (*model.User, error) {
	raw, err := s.client.HGet(ctx, hashUsersByName, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by name %q: %w: %w", name, ErrUnavailable, err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode user name index %q: %w", name, err)
	}
	return s.GetByID(ctx, id)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	if err := setEntity(ctx, s.client, hashUsers, user.ID, user); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, hashUsersByName, user.Name, user.ID).Err(); err != nil {
		return fmt.Errorf("index user name %q: %w: %w", user.Name, ErrUnavailable, err)
	}
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	return s.Create(ctx, user)
}
