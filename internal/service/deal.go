package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

var (
	ErrDealNotFound       = errors.New("deal not found")
	ErrAnnotationNotFound = errors.New("annotation not found")
	ErrDiligenceNotFound  = errors.New("due diligence item not found")
	ErrInvalidTransition  = errors.New("invalid deal status transition")
	// ErrStatusReserved is returned when a client tries to move a deal out
	// of IC review directly. Those exits belong to the voting engine.
	ErrStatusReserved = errors.New("status transition reserved for IC decision")
)

type CreateDealParams struct {
	WorkspaceID   int64
	CompanyName   string
	CompanyData   json.RawMessage
	LeadPartnerID int64
	Stage         string
}

// DealUpdates carries the mutable deal fields; nil means "leave unchanged".
type DealUpdates struct {
	Status           *model.DealStatus `json:"status,omitempty"`
	Stage            *string           `json:"stage,omitempty"`
	InvestmentAmount *float64          `json:"investment_amount,omitempty"`
	Valuation        *float64          `json:"valuation,omitempty"`
	OwnershipTarget  *float64          `json:"ownership_target,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
}

type AnnotationParams struct {
	DealID      int64
	WorkspaceID int64
	UserID      int64
	Content     string
	Type        model.AnnotationType
	Section     *string
}

// DiligenceUpdates carries the mutable DD item fields; nil means unchanged.
type DiligenceUpdates struct {
	Status     *model.DiligenceStatus `json:"status,omitempty"`
	Priority   *model.Priority        `json:"priority,omitempty"`
	AssigneeID *int64                 `json:"assigned_to,omitempty"`
	DueDate    *time.Time             `json:"due_date,omitempty"`
	Note       *string                `json:"note,omitempty"`
}

// DealService owns deal mutations. The mutation methods take the caller's
// workspace ID and treat any target outside that workspace as not found, so
// a connection scoped to one workspace can never touch another's deals.
type DealService interface {
	Create(ctx context.Context, params CreateDealParams) (*model.Deal, []model.DueDiligenceItem, error)
	Get(ctx context.Context, dealID int64) (*model.Deal, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error)
	Update(ctx context.Context, dealID, workspaceID, userID int64, updates DealUpdates) (*model.Deal, error)
	// AddAnnotation creates the annotation and resolves @mentions in its
	// content to workspace member IDs for notification delivery.
	AddAnnotation(ctx context.Context, params AnnotationParams) (*model.Annotation, []int64, error)
	ReplyToAnnotation(ctx context.Context, annotationID, workspaceID, userID int64, content string) (*model.Annotation, error)
	// UpdateDiligenceItem applies updates and reports whether this call
	// completed the item (the completion notification trigger).
	UpdateDiligenceItem(ctx context.Context, itemID, workspaceID, userID int64, updates DiligenceUpdates) (*model.DueDiligenceItem, bool, error)
}

type dealService struct {
	deals       store.DealStore
	annotations store.AnnotationStore
	diligence   store.DiligenceStore
	workspaces  store.WorkspaceStore
	users       store.UserStore
}

func NewDealService(deals store.DealStore, annotations store.AnnotationStore, diligence store.DiligenceStore, workspaces store.WorkspaceStore, users store.UserStore) DealService {
	return &dealService{
		deals:       deals,
		annotations: annotations,
		diligence:   diligence,
		workspaces:  workspaces,
		users:       users,
	}
}

func (s *dealService) Create(ctx context.Context, params CreateDealParams) (*model.Deal, []model.DueDiligenceItem, error) {
	now := time.Now().UTC()
	deal := &model.Deal{
		ID:            id.New(),
		WorkspaceID:   params.WorkspaceID,
		CompanyName:   params.CompanyName,
		CompanyData:   params.CompanyData,
		Status:        model.DealStatusSourced,
		Stage:         params.Stage,
		LeadPartnerID: params.LeadPartnerID,
		TeamMemberIDs: []int64{params.LeadPartnerID},
		ICVotes:       map[int64]model.VoteType{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	checklist := make([]model.DueDiligenceItem, 0, 32)
	for _, category := range diligenceCategories {
		for _, title := range diligenceTemplate[category] {
			item := model.DueDiligenceItem{
				ID:       id.New(),
				DealID:   deal.ID,
				Category: category,
				Title:    title,
				Status:   model.DiligencePending,
				Priority: checklistPriority(category),
			}
			if err := s.diligence.Create(ctx, &item); err != nil {
				return nil, nil, fmt.Errorf("creating checklist item: %w", err)
			}
			checklist = append(checklist, item)
			deal.DiligenceItemIDs = append(deal.DiligenceItemIDs, item.ID)
		}
	}

	deal.LogActivity(params.LeadPartnerID, "created", fmt.Sprintf("Deal created for %s", params.CompanyName))

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, nil, fmt.Errorf("creating deal: %w", err)
	}

	slog.InfoContext(ctx, "deal created",
		"deal_id", deal.ID,
		"workspace_id", deal.WorkspaceID,
		"company", deal.CompanyName,
		"checklist_items", len(checklist),
	)

	return deal, checklist, nil
}

func (s *dealService) Get(ctx context.Context, dealID int64) (*model.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("getting deal: %w", err)
	}
	return deal, nil
}

func (s *dealService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error) {
	deals, err := s.deals.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	return deals, nil
}

func (s *dealService) Update(ctx context.Context, dealID, workspaceID, userID int64, updates DealUpdates) (*model.Deal, error) {
	deal, err := s.getScoped(ctx, dealID, workspaceID)
	if err != nil {
		return nil, err
	}

	if updates.Status != nil && *updates.Status != deal.Status {
		if deal.Status == model.DealStatusICReview {
			return nil, ErrStatusReserved
		}
		if !updates.Status.IsValid() || !deal.Status.CanTransitionTo(*updates.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deal.Status, *updates.Status)
		}
		deal.Status = *updates.Status
	}
	if updates.Stage != nil {
		deal.Stage = *updates.Stage
	}
	if updates.InvestmentAmount != nil {
		deal.InvestmentAmount = updates.InvestmentAmount
	}
	if updates.Valuation != nil {
		deal.Valuation = updates.Valuation
	}
	if updates.OwnershipTarget != nil {
		deal.OwnershipTarget = updates.OwnershipTarget
	}
	if updates.Tags != nil {
		deal.Tags = updates.Tags
	}

	deal.LogActivity(userID, "updated", describeUpdates(updates))
	deal.UpdatedAt = time.Now().UTC()

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("updating deal: %w", err)
	}
	return deal, nil
}

// getScoped loads a deal and hides deals from other workspaces behind
// ErrDealNotFound, so existence does not leak across the boundary.
func (s *dealService) getScoped(ctx context.Context, dealID, workspaceID int64) (*model.Deal, error) {
	deal, err := s.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.WorkspaceID != workspaceID {
		return nil, ErrDealNotFound
	}
	return deal, nil
}

func (s *dealService) AddAnnotation(ctx context.Context, params AnnotationParams) (*model.Annotation, []int64, error) {
	deal, err := s.getScoped(ctx, params.DealID, params.WorkspaceID)
	if err != nil {
		return nil, nil, err
	}

	annType := params.Type
	if annType == "" {
		annType = model.AnnotationNote
	}
	if !annType.IsValid() {
		return nil, nil, fmt.Errorf("invalid annotation type %q", params.Type)
	}

	ann := &model.Annotation{
		ID:        id.New(),
		DealID:    deal.ID,
		UserID:    params.UserID,
		Content:   params.Content,
		Type:      annType,
		Section:   params.Section,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.annotations.Create(ctx, ann); err != nil {
		return nil, nil, fmt.Errorf("creating annotation: %w", err)
	}

	deal.AnnotationIDs = append(deal.AnnotationIDs, ann.ID)
	deal.LogActivity(params.UserID, "annotated", fmt.Sprintf("Added %s annotation", annType))
	deal.UpdatedAt = time.Now().UTC()
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, nil, fmt.Errorf("updating deal annotations: %w", err)
	}

	mentioned, err := s.resolveMentions(ctx, deal, ann.Content)
	if err != nil {
		// Mentions are best effort; the annotation itself is already saved.
		slog.WarnContext(ctx, "failed to resolve mentions", "error", err, "annotation_id", ann.ID)
	}

	return ann, mentioned, nil
}

func (s *dealService) ReplyToAnnotation(ctx context.Context, annotationID, workspaceID, userID int64, content string) (*model.Annotation, error) {
	ann, err := s.annotations.GetByID(ctx, annotationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAnnotationNotFound
		}
		return nil, fmt.Errorf("getting annotation: %w", err)
	}

	deal, err := s.Get(ctx, ann.DealID)
	if err != nil {
		return nil, err
	}
	if deal.WorkspaceID != workspaceID {
		return nil, ErrAnnotationNotFound
	}

	ann.Replies = append(ann.Replies, model.AnnotationReply{
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.annotations.Update(ctx, ann); err != nil {
		return nil, fmt.Errorf("saving annotation reply: %w", err)
	}

	deal.LogActivity(userID, "annotation_reply", fmt.Sprintf("Replied to annotation %d", ann.ID))
	deal.UpdatedAt = time.Now().UTC()
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("updating deal activity: %w", err)
	}

	return ann, nil
}

func (s *dealService) UpdateDiligenceItem(ctx context.Context, itemID, workspaceID, userID int64, updates DiligenceUpdates) (*model.DueDiligenceItem, bool, error) {
	item, err := s.diligence.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrDiligenceNotFound
		}
		return nil, false, fmt.Errorf("getting diligence item: %w", err)
	}

	deal, err := s.Get(ctx, item.DealID)
	if err != nil {
		return nil, false, err
	}
	if deal.WorkspaceID != workspaceID {
		return nil, false, ErrDiligenceNotFound
	}

	completed := false
	if updates.Status != nil {
		if !updates.Status.IsValid() {
			return nil, false, fmt.Errorf("invalid diligence status %q", *updates.Status)
		}
		if *updates.Status == model.DiligenceCompleted && item.Status != model.DiligenceCompleted {
			now := time.Now().UTC()
			item.CompletedAt = &now
			completed = true
		}
		item.Status = *updates.Status
	}
	if updates.Priority != nil {
		if !updates.Priority.IsValid() {
			return nil, false, fmt.Errorf("invalid priority %q", *updates.Priority)
		}
		item.Priority = *updates.Priority
	}
	if updates.AssigneeID != nil {
		item.AssigneeID = updates.AssigneeID
	}
	if updates.DueDate != nil {
		item.DueDate = updates.DueDate
	}
	if updates.Note != nil && *updates.Note != "" {
		item.Notes = append(item.Notes, model.DiligenceNote{
			UserID:    userID,
			Text:      *updates.Note,
			CreatedAt: time.Now().UTC(),
		})
	}

	if err := s.diligence.Update(ctx, item); err != nil {
		return nil, false, fmt.Errorf("updating diligence item: %w", err)
	}

	deal.LogActivity(userID, "dd_update", fmt.Sprintf("Updated checklist item: %s", item.Title))
	deal.UpdatedAt = time.Now().UTC()
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, false, fmt.Errorf("updating deal activity: %w", err)
	}

	return item, completed, nil
}

func describeUpdates(updates DealUpdates) string {
	fields := make([]string, 0, 6)
	if updates.Status != nil {
		fields = append(fields, "status")
	}
	if updates.Stage != nil {
		fields = append(fields, "stage")
	}
	if updates.InvestmentAmount != nil {
		fields = append(fields, "investment_amount")
	}
	if updates.Valuation != nil {
		fields = append(fields, "valuation")
	}
	if updates.OwnershipTarget != nil {
		fields = append(fields, "ownership_target")
	}
	if updates.Tags != nil {
		fields = append(fields, "tags")
	}
	if len(fields) == 0 {
		return "Updated deal"
	}
	out := "Updated " + fields[0]
	for _, f := range fields[1:] {
		out += ", " + f
	}
	return out
}
