package store

import (
	"context"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type diligenceStore struct {
	client *redis.Client
}

func (s *diligenceStore) GetByID(ctx context.Context, id int64) (*model.DueDiligenceItem, error) {
	return getEntity[model.DueDiligenceItem](ctx, s.client, hashDDItems, id)
}

func (s *diligenceStore) Create(ctx context.Context, item *model.DueDiligenceItem) error {
	return setEntity(ctx, s.client, hashDDItems, item.ID, item)
}

func (s *diligenceStore) Update(ctx context.Context, item *model.DueDiligenceItem) error {
	return setEntity(ctx, s.client, hashDDItems, item.ID, item)
}
