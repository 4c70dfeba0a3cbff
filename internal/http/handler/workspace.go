package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/service"
)

type WorkspaceHandler struct {
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type createWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required"`
	FirmID      int64   `json:"firm_id" binding:"required"`
	Description *string `json:"description"`
}

// Create creates a deal workspace owned by the caller.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: name and firm_id are required"})
		return
	}

	ws, err := h.workspaces.Create(ctx, req.Name, req.FirmID, currentUserID(c), req.Description)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create workspace", "error", err, "name", req.Name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create workspace"})
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// Get returns a workspace. Members only.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	wsID, err := pathID(c, "workspace_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

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

	if !ws.HasMember(currentUserID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		return
	}

	c.JSON(http.StatusOK, ws)
}

type addMemberRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AddMember adds a user to the workspace. The caller must already belong.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()

	wsID, err := pathID(c, "workspace_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: user_id is required"})
		return
	}

	if err := h.requireMember(c, wsID); err != nil {
		return
	}

	ws, err := h.workspaces.AddMember(ctx, wsID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		case errors.Is(err, service.ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a workspace member"})
		default:
			slog.ErrorContext(ctx, "failed to add workspace member", "error", err,
				"workspace_id", wsID, "member_id", req.UserID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		}
		return
	}

	slog.InfoContext(ctx, "workspace member added",
		"workspace_id", wsID,
		"member_id", req.UserID,
		"added_by", currentUserID(c),
	)

	c.JSON(http.StatusOK, ws)
}

// requireMember loads the workspace and rejects the request unless the
// caller belongs to it. Writes the error response itself.
func (h *WorkspaceHandler) requireMember(c *gin.Context, wsID int64) error {
	ws, err := h.workspaces.Get(c.Request.Context(), wsID)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return err
		}
		slog.ErrorContext(c.Request.Context(), "failed to load workspace", "error", err, "workspace_id", wsID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workspace"})
		return err
	}
	if !ws.HasMember(currentUserID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		return errNotMember
	}
	return nil
}

var errNotMember = errors.New("not a workspace member")

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
