package model

import "time"

type NotificationType string

const (
	NotificationMention            NotificationType = "mention"
	NotificationDiligenceCompleted NotificationType = "dd_completed"
	NotificationDealShared         NotificationType = "deal_shared"
)

// Notification is delivered live when the recipient has a connection and is
// always appended to their durable offline queue (at-least-once).
type Notification struct {
	ID         int64            `json:"id"`
	Type       NotificationType `json:"type"`
	FromUserID int64            `json:"from_user,omitempty"`
	DealID     int64            `json:"deal_id,omitempty"`
	Data       map[string]any   `json:"data,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
