package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNameTaken    = errors.New("user name is already taken")
	ErrInvalidRole  = errors.New("invalid user role")
)

type UserService interface {
	Create(ctx context.Context, email, name string, firmID int64, role model.UserRole) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
}

type userService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, email, name string, firmID int64, role model.UserRole) (*model.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	// Name backs @mention resolution, so it must be unique firm-wide.
	if _, err := s.users.GetByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check user name: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:         id.New(),
		Email:      email,
		Name:       name,
		FirmID:     firmID,
		Role:       role,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID, "name", user.Name, "role", user.Role)
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}
