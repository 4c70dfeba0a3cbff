package store

import (
	"context"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type annotationStore struct {
	client *redis.Client
}

func (s *annotationStore) GetByID(ctx context.Context, id int64) (*model.Annotation, error) {
	return getEntity[model.Annotation](ctx, s.client, hashAnnotations, id)
}

func (s *annotationStore) Create(ctx context.Context, ann *model.Annotation) error {
	return setEntity(ctx, s.client, hashAnnotations, ann.ID, ann)
}

func (s *annotationStore) Update(ctx context.Context, ann *model.Annotation) error {
	return setEntity(ctx, s.client, hashAnnotations, ann.ID, ann)
}
