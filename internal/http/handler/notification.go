package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/store"
)

type NotificationHandler struct {
	queue store.NotificationQueue
}

func NewNotificationHandler(queue store.NotificationQueue) *NotificationHandler {
	return &NotificationHandler{queue: queue}
}

// Drain returns and clears everything queued for the caller while they were
// offline, oldest first.
func (h *NotificationHandler) Drain(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	notifications, err := h.queue.Drain(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to drain notifications", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// Pending returns the caller's queued notification count without clearing.
func (h *NotificationHandler) Pending(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	count, err := h.queue.Pending(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count notifications", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": count})
}
