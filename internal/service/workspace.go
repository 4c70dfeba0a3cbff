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
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrAlreadyMember     = errors.New("user is already a workspace member")
)

type WorkspaceService interface {
	Create(ctx context.Context, name string, firmID, createdBy int64, description *string) (*model.Workspace, error)
	Get(ctx context.Context, id int64) (*model.Workspace, error)
	AddMember(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error)
}

type workspaceService struct {
	workspaces store.WorkspaceStore
}

func NewWorkspaceService(workspaces store.WorkspaceStore) WorkspaceService {
	return &workspaceService{workspaces: workspaces}
}

func (s *workspaceService) Create(ctx context.Context, name string, firmID, createdBy int64, description *string) (*model.Workspace, error) {
	ws := &model.Workspace{
		ID:          id.New(),
		FirmID:      firmID,
		Name:        name,
		Description: description,
		Members:     []int64{createdBy},
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"firm_id", firmID,
		"created_by", createdBy,
	)

	return ws, nil
}

func (s *workspaceService) Get(ctx context.Context, wsID int64) (*model.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, wsID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) AddMember(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error) {
	ws, err := s.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if ws.HasMember(userID) {
		return nil, ErrAlreadyMember
	}

	ws.Members = append(ws.Members, userID)
	if err := s.workspaces.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("updating workspace members: %w", err)
	}

	slog.InfoContext(ctx, "workspace member added", "workspace_id", workspaceID, "user_id", userID)
	return ws, nil
}
