package store

import (
	"context"
	"encoding/json"
	"fmt"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type dealStore struct {
	client *redis.Client
}

func (s *dealStore) GetByID(ctx context.Context, id int64) (*model.Deal, error) {
	return getEntity[model.Deal](ctx, s.client, hashDeals, id)
}

func (s *dealStore) Create(ctx context.Context, deal *model.Deal) error {
	return setEntity(ctx, s.client, hashDeals, deal.ID, deal)
}

func (s *dealStore) Update(ctx context.Context, deal *model.Deal) error {
	return setEntity(ctx, s.client, hashDeals, deal.ID, deal)
}

// ListByWorkspace scans the deal hash. Deal counts per process are small
// (hundreds, not millions); a secondary index is not worth the bookkeeping.
func (s *dealStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error) {
	all, err := s.client.HGetAll(ctx, hashDeals).Result()
	if err != nil {
		return nil, fmt.Errorf("list deals: %w: %w", ErrUnavailable, err)
	}

	deals := make([]model.Deal, 0, len(all))
	for field, raw := range all {
		var deal model.Deal
		if err := json.Unmarshal([]byte(raw), &deal); err != nil {
			return nil, fmt.Errorf("decode deal %s: %w", field, err)
		}
		if deal.WorkspaceID == workspaceID {
			deals = append(deals, deal)
		}
	}
	return deals, nil
}
