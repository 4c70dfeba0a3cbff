package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dealflow.app/hub/internal/hub"
	"dealflow.app/hub/internal/service"
)

type WSHandler struct {
	hub        *hub.Hub
	workspaces service.WorkspaceService

	idleTimeout  time.Duration
	pingInterval time.Duration

	upgrader websocket.Upgrader
}

func NewWSHandler(h *hub.Hub, workspaces service.WorkspaceService, idleTimeout, pingInterval time.Duration) *WSHandler {
	return &WSHandler{
		hub:          h,
		workspaces:   workspaces,
		idleTimeout:  idleTimeout,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin enforcement happens at the edge; tokens gate access here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and runs the collaboration session until the
// client disconnects. The workspace membership check happens before the
// upgrade so rejections stay plain HTTP.
func (h *WSHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	wsID, err := pathID(c, "workspace_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	userID := currentUserID(c)

	ws, err := h.workspaces.Get(ctx, wsID)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load workspace", "error", err, "workspace_id", wsID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workspace"})
		return
	}
	if !ws.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.WarnContext(ctx, "websocket upgrade failed", "error", err,
			"workspace_id", wsID, "user_id", userID)
		return
	}

	slog.InfoContext(ctx, "collaboration session opened",
		"workspace_id", wsID,
		"user_id", userID,
	)

	client := hub.NewClient(h.hub, conn, userID, wsID, h.idleTimeout, h.pingInterval)
	client.Run(ctx)

	slog.InfoContext(ctx, "collaboration session closed",
		"workspace_id", wsID,
		"user_id", userID,
	)
}
