package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	FirmID int64  `json:"firm_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: email, name, firm_id and role are required"})
		return
	}

	user, err := h.users.Create(ctx, req.Email, req.Name, req.FirmID, model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		case errors.Is(err, service.ErrNameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "user name is already taken"})
		default:
			slog.ErrorContext(ctx, "failed to create user", "error", err, "name", req.Name)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := pathID(c, "user_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load user", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
