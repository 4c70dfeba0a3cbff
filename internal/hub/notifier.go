package hub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

// Notifier delivers an event to a user's live connection when one exists and
// always appends it to the durable offline queue. At-least-once: a live user
// may see the event twice; clients dedupe on notification ID.
type Notifier struct {
	registry *Registry
	queue    store.NotificationQueue
}

func NewNotifier(registry *Registry, queue store.NotificationQueue) *Notifier {
	return &Notifier{registry: registry, queue: queue}
}

func (n *Notifier) Notify(ctx context.Context, userID int64, notification model.Notification) error {
	if notification.ID == 0 {
		notification.ID = id.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	if conn, ok := n.registry.UserConn(userID); ok {
		event := notificationEvent{
			eventBase:    newEvent("notification", 0),
			Notification: notification,
		}
		if err := conn.WriteJSON(event); err != nil {
			slog.WarnContext(ctx, "live notification delivery failed",
				"user_id", userID,
				"type", notification.Type,
				"error", err,
			)
			n.registry.Drop(conn)
			_ = conn.Close()
		}
	}

	// The durable write is what guarantees delivery; a failure here must
	// surface to the caller, not vanish.
	if err := n.queue.Push(ctx, userID, notification); err != nil {
		return fmt.Errorf("queueing notification: %w", err)
	}
	return nil
}
