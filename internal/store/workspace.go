package store

import (
	"context"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type workspaceStore struct {
	client *redis.Client
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	return getEntity[model.Workspace](ctx, s.client, hashWorkspaces, id)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	return setEntity(ctx, s.client, hashWorkspaces, ws.ID, ws)
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	return setEntity(ctx, s.client, hashWorkspaces, ws.ID, ws)
}
