package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"dealflow.app/hub/common/logger"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

// Hub coordinates the live collaboration protocol for all workspaces in the
// process: presence, broadcast fan-out, and the inbound message dispatch.
type Hub struct {
	registry   *Registry
	notifier   *Notifier
	workspaces service.WorkspaceService
	deals      service.DealService
	voting     service.VotingService
}

func New(registry *Registry, notifier *Notifier, workspaces service.WorkspaceService, deals service.DealService, voting service.VotingService) *Hub {
	return &Hub{
		registry:   registry,
		notifier:   notifier,
		workspaces: workspaces,
		deals:      deals,
		voting:     voting,
	}
}

func (h *Hub) Registry() *Registry { return h.registry }
func (h *Hub) Notifier() *Notifier { return h.notifier }

// Connect registers the connection, announces presence, and pushes the
// workspace snapshot to the new client. A prior connection for the same
// (user, workspace) is closed and replaced.
func (h *Hub) Connect(ctx context.Context, conn Conn, userID, workspaceID int64) error {
	if evicted := h.registry.Register(conn, userID, workspaceID); evicted != nil {
		slog.InfoContext(ctx, "evicting duplicate connection", "user_id", userID, "workspace_id", workspaceID)
		_ = evicted.Close()
	}

	h.Broadcast(ctx, workspaceID, userJoinedEvent{newEvent("user_joined", userID)}, userID)

	return h.sendWorkspaceState(ctx, conn, workspaceID)
}

// Disconnect removes the connection and announces departure. When a newer
// connection for the same (user, workspace) is still registered the user
// never actually left, so no presence event is sent. In-flight work for the
// connection is abandoned, not rolled back.
func (h *Hub) Disconnect(ctx context.Context, conn Conn, userID, workspaceID int64) {
	if h.registry.Unregister(conn, userID, workspaceID) {
		return
	}
	h.Broadcast(ctx, workspaceID, userLeftEvent{newEvent("user_left", userID)}, 0)
}

// Broadcast sends event to every connection in the workspace except the one
// belonging to excludeUserID (zero excludes nobody). A failed write prunes
// that connection and never stops delivery to the rest.
func (h *Hub) Broadcast(ctx context.Context, workspaceID int64, event any, excludeUserID int64) {
	for _, sub := range h.registry.Subscribers(workspaceID) {
		if excludeUserID != 0 && sub.userID == excludeUserID {
			continue
		}
		if err := sub.conn.WriteJSON(event); err != nil {
			slog.WarnContext(ctx, "broadcast write failed, pruning connection",
				"workspace_id", workspaceID,
				"user_id", sub.userID,
				"error", err,
			)
			h.registry.Drop(sub.conn)
			_ = sub.conn.Close()
		}
	}
}

// HandleMessage dispatches one inbound message. Protocol errors are reported
// to the sender only; the connection stays open.
func (h *Hub) HandleMessage(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(conn, "malformed message")
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageType: logger.Ptr(env.Type)})

	switch env.Type {
	case msgCursorMove:
		h.handleCursorMove(ctx, userID, workspaceID, raw)
	case msgSelectionChange:
		h.handleSelectionChange(ctx, userID, workspaceID, raw)
	case msgAnnotationCreate:
		h.handleAnnotationCreate(ctx, conn, userID, workspaceID, raw)
	case msgAnnotationReply:
		h.handleAnnotationReply(ctx, conn, userID, workspaceID, raw)
	case msgDealUpdate:
		h.handleDealUpdate(ctx, conn, userID, workspaceID, raw)
	case msgVoteCast:
		h.handleVoteCast(ctx, conn, userID, workspaceID, raw)
	case msgDiligenceUpdate:
		h.handleDiligenceUpdate(ctx, conn, userID, workspaceID, raw)
	case msgTypingIndicator:
		h.handleTypingIndicator(ctx, userID, workspaceID, raw)
	default:
		h.sendError(conn, fmt.Sprintf("Unknown message type: %s", env.Type))
	}
}

// BroadcastDealCreated announces a deal created outside the socket protocol
// (the REST create endpoint).
func (h *Hub) BroadcastDealCreated(ctx context.Context, deal *model.Deal, createdBy int64) {
	event := dealCreatedEvent{
		eventBase: newEvent("deal_created", createdBy),
		Deal:      deal,
		CreatedBy: createdBy,
	}
	h.Broadcast(ctx, deal.WorkspaceID, event, 0)
}

func (h *Hub) sendWorkspaceState(ctx context.Context, conn Conn, workspaceID int64) error {
	ws, err := h.workspaces.Get(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("loading workspace state: %w", err)
	}
	deals, err := h.deals.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("loading workspace deals: %w", err)
	}

	state := workspaceStateEvent{
		eventBase:   newEvent("workspace_state", 0),
		Workspace:   ws,
		Deals:       deals,
		OnlineUsers: h.registry.Online(workspaceID),
	}
	if err := conn.WriteJSON(state); err != nil {
		return fmt.Errorf("sending workspace state: %w", err)
	}
	return nil
}

func (h *Hub) sendError(conn Conn, message string) {
	_ = conn.WriteJSON(errorEvent{Type: "error", Message: message})
}
