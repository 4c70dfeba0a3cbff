package hub

import (
	"encoding/json"
	"time"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

// Inbound message types.
const (
	msgCursorMove       = "cursor_move"
	msgSelectionChange  = "selection_change"
	msgAnnotationCreate = "annotation_create"
	msgAnnotationReply  = "annotation_reply"
	msgDealUpdate       = "deal_update"
	msgVoteCast         = "vote_cast"
	msgDiligenceUpdate  = "dd_item_update"
	msgTypingIndicator  = "typing_indicator"
)

// envelope is the first decoding pass; type-specific payloads are decoded
// from the raw bytes once the type is known.
type envelope struct {
	Type string `json:"type"`
}

type cursorMovePayload struct {
	Position json.RawMessage `json:"position"`
}

type selectionChangePayload struct {
	Selection json.RawMessage `json:"selection"`
}

type annotationCreatePayload struct {
	DealID  int64                `json:"deal_id"`
	Content string               `json:"content"`
	Type    model.AnnotationType `json:"annotation_type"`
	Section *string              `json:"section"`
}

type annotationReplyPayload struct {
	AnnotationID int64  `json:"annotation_id"`
	Content      string `json:"content"`
}

type dealUpdatePayload struct {
	DealID  int64               `json:"deal_id"`
	Updates service.DealUpdates `json:"updates"`
}

type voteCastPayload struct {
	DealID  int64          `json:"deal_id"`
	Vote    model.VoteType `json:"vote"`
	Comment string         `json:"comment"`
}

type diligenceUpdatePayload struct {
	ItemID  int64                    `json:"item_id"`
	Updates service.DiligenceUpdates `json:"updates"`
}

type typingIndicatorPayload struct {
	IsTyping bool    `json:"is_typing"`
	Context  *string `json:"context"`
}

// eventBase carries the fields every outbound event has: type, acting user,
// and an ISO-8601 timestamp.
type eventBase struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newEvent(typ string, userID int64) eventBase {
	return eventBase{
		Type:      typ,
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type cursorUpdateEvent struct {
	eventBase
	Position json.RawMessage `json:"position"`
}

type selectionUpdateEvent struct {
	eventBase
	Selection json.RawMessage `json:"selection"`
}

type typingIndicatorEvent struct {
	eventBase
	IsTyping bool    `json:"is_typing"`
	Context  *string `json:"context,omitempty"`
}

type annotationCreatedEvent struct {
	eventBase
	Annotation *model.Annotation `json:"annotation"`
}

type annotationUpdatedEvent struct {
	eventBase
	Annotation *model.Annotation `json:"annotation"`
}

type dealCreatedEvent struct {
	eventBase
	Deal      *model.Deal `json:"deal"`
	CreatedBy int64       `json:"created_by"`
}

type dealUpdatedEvent struct {
	eventBase
	DealID  int64               `json:"deal_id"`
	Updates service.DealUpdates `json:"updates"`
}

type voteUpdateEvent struct {
	eventBase
	DealID      int64             `json:"deal_id"`
	Vote        model.VoteType    `json:"vote"`
	VoteSummary model.VoteSummary `json:"vote_summary"`
}

type icDecisionFinalEvent struct {
	eventBase
	DealID      int64             `json:"deal_id"`
	Decision    string            `json:"decision"`
	VoteSummary model.VoteSummary `json:"vote_summary"`
}

type diligenceUpdatedEvent struct {
	eventBase
	ItemID  int64                    `json:"item_id"`
	Updates service.DiligenceUpdates `json:"updates"`
}

type userJoinedEvent struct {
	eventBase
}

type userLeftEvent struct {
	eventBase
}

type workspaceStateEvent struct {
	eventBase
	Workspace   *model.Workspace `json:"workspace"`
	Deals       []model.Deal     `json:"deals"`
	OnlineUsers int              `json:"online_users"`
}

type notificationEvent struct {
	eventBase
	Notification model.Notification `json:"notification"`
}
