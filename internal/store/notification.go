package store

import (
	"context"
	"encoding/json"
	"fmt"

	"dealflow.app/hub/internal/model"
	"github.com/redis/go-redis/v9"
)

type notificationQueue struct {
	client *redis.Client
}

func notificationKey(userID int64) string {
	return fmt.Sprintf("%s%d", notificationKeyPrefix, userID)
}

func (q *notificationQueue) Push(ctx context.Context, userID int64, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := q.client.LPush(ctx, notificationKey(userID), data).Err(); err != nil {
		return fmt.Errorf("queue notification for user %d: %w: %w", userID, ErrUnavailable, err)
	}
	return nil
}

// Drain returns all queued notifications, oldest first, and empties the
// queue. Drain-then-crash drops the batch; acceptable for best-effort
// offline delivery.
func (q *notificationQueue) Drain(ctx context.Context, userID int64) ([]model.Notification, error) {
	key := notificationKey(userID)

	pipe := q.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notifications for user %d: %w: %w", userID, ErrUnavailable, err)
	}

	raws := rangeCmd.Val()
	notifications := make([]model.Notification, 0, len(raws))
	// LPush prepends, so the list is newest first; walk it backwards.
	for i := len(raws) - 1; i >= 0; i-- {
		var n model.Notification
		if err := json.Unmarshal([]byte(raws[i]), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (q *notificationQueue) Pending(ctx context.Context, userID int64) (int64, error) {
	count, err := q.client.LLen(ctx, notificationKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count notifications for user %d: %w: %w", userID, ErrUnavailable, err)
	}
	return count, nil
}
