package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/hub"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

type DealHandler struct {
	deals      service.DealService
	workspaces service.WorkspaceService
	sharing    service.ShareService
	verifier   service.IdentityVerifier
	hub        *hub.Hub
}

func NewDealHandler(deals service.DealService, workspaces service.WorkspaceService, sharing service.ShareService, verifier service.IdentityVerifier, h *hub.Hub) *DealHandler {
	return &DealHandler{
		deals:      deals,
		workspaces: workspaces,
		sharing:    sharing,
		verifier:   verifier,
		hub:        h,
	}
}

type createDealRequest struct {
	CompanyName string          `json:"company_name" binding:"required"`
	CompanyData json.RawMessage `json:"company_data"`
	Stage       string          `json:"stage"`
}

// Create creates a deal in the workspace with the caller as lead partner and
// seeds its due diligence checklist. Connected workspace members learn about
// it over their live connections.
func (h *DealHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	wsID, err := pathID(c, "workspace_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: company_name is required"})
		return
	}

	userID := currentUserID(c)
	if err := h.requireMember(c, wsID, userID); err != nil {
		return
	}

	deal, checklist, err := h.deals.Create(ctx, service.CreateDealParams{
		WorkspaceID:   wsID,
		CompanyName:   req.CompanyName,
		CompanyData:   req.CompanyData,
		LeadPartnerID: userID,
		Stage:         req.Stage,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create deal", "error", err,
			"workspace_id", wsID, "company", req.CompanyName)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create deal"})
		return
	}

	h.hub.BroadcastDealCreated(ctx, deal, userID)

	c.JSON(http.StatusCreated, gin.H{
		"deal":                deal,
		"due_diligence_items": checklist,
	})
}

// Get returns a deal. Callers authenticate either as a workspace member
// (Bearer token) or by presenting a share token scoped to this deal.
func (h *DealHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	dealID, err := pathID(c, "deal_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}

	deal, err := h.deals.Get(ctx, dealID)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load deal", "error", err, "deal_id", dealID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deal"})
		return
	}

	if token := c.Query("token"); token != "" {
		claims, err := h.sharing.Verify(token)
		switch {
		case errors.Is(err, service.ErrExpiredShareToken):
			c.JSON(http.StatusGone, gin.H{"error": "share link expired", "code": "expired"})
			return
		case err != nil:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid share token"})
			return
		case claims.DealID != dealID:
			// A valid token for some other deal grants nothing here.
			c.JSON(http.StatusForbidden, gin.H{"error": "token not valid for this deal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deal": deal, "permissions": claims.Permissions})
		return
	}

	userID, err := h.verifier.Verify(ctx, bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token or share token"})
		return
	}

	ws, err := h.workspaces.Get(ctx, deal.WorkspaceID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load workspace", "error", err, "workspace_id", deal.WorkspaceID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deal"})
		return
	}
	if !ws.HasMember(userID) && !deal.IsTeamMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// List returns the workspace's deals. Members only.
func (h *DealHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	wsID, err := pathID(c, "workspace_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	if err := h.requireMember(c, wsID, currentUserID(c)); err != nil {
		return
	}

	deals, err := h.deals.ListByWorkspace(ctx, wsID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list deals", "error", err, "workspace_id", wsID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

type shareDealRequest struct {
	UserIDs     []int64                 `json:"user_ids" binding:"required,min=1"`
	Permissions *model.SharePermissions `json:"permissions"`
}

type shareDealResponse struct {
	Token       string                 `json:"share_token"`
	ShareURL    string                 `json:"share_url"`
	SharedWith  []int64                `json:"shared_with"`
	Permissions model.SharePermissions `json:"permissions"`
}

// Share issues a share token for the deal, adds the recipients to its team,
// and notifies them.
func (h *DealHandler) Share(c *gin.Context) {
	ctx := c.Request.Context()

	dealID, err := pathID(c, "deal_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}

	var req shareDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: user_ids is required"})
		return
	}

	deal, err := h.deals.Get(ctx, dealID)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load deal", "error", err, "deal_id", dealID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share deal"})
		return
	}

	userID := currentUserID(c)
	if err := h.requireMember(c, deal.WorkspaceID, userID); err != nil {
		return
	}

	result, err := h.sharing.ShareDeal(ctx, dealID, userID, req.UserIDs, req.Permissions)
	if err != nil {
		slog.ErrorContext(ctx, "failed to share deal", "error", err, "deal_id", dealID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share deal"})
		return
	}

	for _, recipientID := range result.SharedWith {
		if recipientID == userID {
			continue
		}
		notifyErr := h.hub.Notifier().Notify(ctx, recipientID, model.Notification{
			Type:       model.NotificationDealShared,
			FromUserID: userID,
			DealID:     dealID,
			Data: map[string]any{
				"company_name": deal.CompanyName,
				"share_url":    result.ShareURL,
			},
		})
		if notifyErr != nil {
			slog.WarnContext(ctx, "failed to notify share recipient", "error", notifyErr,
				"deal_id", dealID, "recipient_id", recipientID)
		}
	}

	c.JSON(http.StatusOK, shareDealResponse{
		Token:       result.Token,
		ShareURL:    result.ShareURL,
		SharedWith:  result.SharedWith,
		Permissions: result.Permissions,
	})
}

func (h *DealHandler) requireMember(c *gin.Context, wsID, userID int64) error {
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
	if !ws.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		return errNotMember
	}
	return nil
}
