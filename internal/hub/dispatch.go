package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

func (h *Hub) handleCursorMove(ctx context.Context, userID, workspaceID int64, raw []byte) {
	var p cursorMovePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	event := cursorUpdateEvent{
		eventBase: newEvent("cursor_update", userID),
		Position:  p.Position,
	}
	h.Broadcast(ctx, workspaceID, event, userID)
}

func (h *Hub) handleSelectionChange(ctx context.Context, userID, workspaceID int64, raw []byte) {
	var p selectionChangePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	event := selectionUpdateEvent{
		eventBase: newEvent("selection_update", userID),
		Selection: p.Selection,
	}
	h.Broadcast(ctx, workspaceID, event, userID)
}

func (h *Hub) handleTypingIndicator(ctx context.Context, userID, workspaceID int64, raw []byte) {
	var p typingIndicatorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	event := typingIndicatorEvent{
		eventBase: newEvent("typing_indicator", userID),
		IsTyping:  p.IsTyping,
		Context:   p.Context,
	}
	h.Broadcast(ctx, workspaceID, event, userID)
}

func (h *Hub) handleAnnotationCreate(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var p annotationCreatePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.DealID == 0 || p.Content == "" {
		h.sendError(conn, "annotation_create requires deal_id and content")
		return
	}

	ann, mentioned, err := h.deals.AddAnnotation(ctx, service.AnnotationParams{
		DealID:      p.DealID,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Content:     p.Content,
		Type:        p.Type,
		Section:     p.Section,
	})
	if err != nil {
		h.reportError(ctx, conn, "creating annotation", err)
		return
	}

	event := annotationCreatedEvent{
		eventBase:  newEvent("annotation_created", userID),
		Annotation: ann,
	}
	h.Broadcast(ctx, workspaceID, event, 0)

	for _, mentionedID := range mentioned {
		n := model.Notification{
			Type:       model.NotificationMention,
			FromUserID: userID,
			DealID:     ann.DealID,
			Data:       map[string]any{"content": ann.Content},
		}
		if err := h.notifier.Notify(ctx, mentionedID, n); err != nil {
			slog.ErrorContext(ctx, "failed to deliver mention notification", "error", err, "user_id", mentionedID)
		}
	}
}

func (h *Hub) handleAnnotationReply(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var p annotationReplyPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.AnnotationID == 0 || p.Content == "" {
		h.sendError(conn, "annotation_reply requires annotation_id and content")
		return
	}

	ann, err := h.deals.ReplyToAnnotation(ctx, p.AnnotationID, workspaceID, userID, p.Content)
	if err != nil {
		h.reportError(ctx, conn, "replying to annotation", err)
		return
	}

	event := annotationUpdatedEvent{
		eventBase:  newEvent("annotation_updated", userID),
		Annotation: ann,
	}
	h.Broadcast(ctx, workspaceID, event, 0)
}

func (h *Hub) handleDealUpdate(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var p dealUpdatePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.DealID == 0 {
		h.sendError(conn, "deal_update requires deal_id and updates")
		return
	}

	if _, err := h.deals.Update(ctx, p.DealID, workspaceID, userID, p.Updates); err != nil {
		h.reportError(ctx, conn, "updating deal", err)
		return
	}

	event := dealUpdatedEvent{
		eventBase: newEvent("deal_updated", userID),
		DealID:    p.DealID,
		Updates:   p.Updates,
	}
	h.Broadcast(ctx, workspaceID, event, 0)
}

func (h *Hub) handleVoteCast(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var p voteCastPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.DealID == 0 {
		h.sendError(conn, "vote_cast requires deal_id and vote")
		return
	}

	result, err := h.voting.CastVote(ctx, p.DealID, userID, p.Vote, p.Comment)
	if err != nil {
		h.reportError(ctx, conn, "casting vote", err)
		return
	}

	voteEvent := voteUpdateEvent{
		eventBase:   newEvent("vote_update", userID),
		DealID:      p.DealID,
		Vote:        p.Vote,
		VoteSummary: result.Summary,
	}
	h.Broadcast(ctx, workspaceID, voteEvent, 0)

	// Finalized is set only on the vote that completed the quorum, so the
	// terminal event is broadcast exactly once per deal.
	if result.Finalized {
		finalEvent := icDecisionFinalEvent{
			eventBase:   newEvent("ic_decision_final", 0),
			DealID:      p.DealID,
			Decision:    result.Decision.Decision,
			VoteSummary: result.Summary,
		}
		h.Broadcast(ctx, workspaceID, finalEvent, 0)
	}
}

func (h *Hub) handleDiligenceUpdate(ctx context.Context, conn Conn, userID, workspaceID int64, raw []byte) {
	var p diligenceUpdatePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ItemID == 0 {
		h.sendError(conn, "dd_item_update requires item_id and updates")
		return
	}

	item, completed, err := h.deals.UpdateDiligenceItem(ctx, p.ItemID, workspaceID, userID, p.Updates)
	if err != nil {
		h.reportError(ctx, conn, "updating diligence item", err)
		return
	}

	event := diligenceUpdatedEvent{
		eventBase: newEvent("dd_item_updated", userID),
		ItemID:    p.ItemID,
		Updates:   p.Updates,
	}
	h.Broadcast(ctx, workspaceID, event, 0)

	if completed && item.AssigneeID != nil {
		n := model.Notification{
			Type:       model.NotificationDiligenceCompleted,
			FromUserID: userID,
			DealID:     item.DealID,
			Data:       map[string]any{"item": item.Title},
		}
		if err := h.notifier.Notify(ctx, *item.AssigneeID, n); err != nil {
			slog.ErrorContext(ctx, "failed to deliver completion notification", "error", err, "user_id", *item.AssigneeID)
		}
	}
}

// reportError sends a protocol-level error to the sender. Expected domain
// errors keep their message; anything else is logged and masked.
func (h *Hub) reportError(ctx context.Context, conn Conn, op string, err error) {
	switch {
	case errors.Is(err, service.ErrDealNotFound),
		errors.Is(err, service.ErrAnnotationNotFound),
		errors.Is(err, service.ErrDiligenceNotFound),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStatusReserved),
		errors.Is(err, service.ErrInvalidVote),
		errors.Is(err, service.ErrNotEligibleVoter),
		errors.Is(err, service.ErrVotingClosed):
		h.sendError(conn, err.Error())
	default:
		slog.ErrorContext(ctx, "message handler failed", "op", op, "error", err)
		h.sendError(conn, op+" failed")
	}
}
