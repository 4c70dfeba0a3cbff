package hub

import (
	"context"
	"errors"
	"sync"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
)

// fakeConn records everything written to it. Setting failWrites makes every
// write fail, simulating a dead peer.
type fakeConn struct {
	mu         sync.Mutex
	written    []any
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("connection reset")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) events() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.written))
	copy(out, c.written)
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type mockWorkspaceService struct {
	getFn func(ctx context.Context, id int64) (*model.Workspace, error)
}

func (m *mockWorkspaceService) Create(_ context.Context, _ string, _, _ int64, _ *string) (*model.Workspace, error) {
	return nil, nil
}

func (m *mockWorkspaceService) Get(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.Workspace{ID: id}, nil
}

func (m *mockWorkspaceService) AddMember(_ context.Context, _, _ int64) (*model.Workspace, error) {
	return nil, nil
}

type mockDealService struct {
	listByWorkspaceFn     func(ctx context.Context, workspaceID int64) ([]model.Deal, error)
	updateFn              func(ctx context.Context, dealID, workspaceID, userID int64, updates service.DealUpdates) (*model.Deal, error)
	addAnnotationFn       func(ctx context.Context, params service.AnnotationParams) (*model.Annotation, []int64, error)
	replyToAnnotationFn   func(ctx context.Context, annotationID, workspaceID, userID int64, content string) (*model.Annotation, error)
	updateDiligenceItemFn func(ctx context.Context, itemID, workspaceID, userID int64, updates service.DiligenceUpdates) (*model.DueDiligenceItem, bool, error)
}

func (m *mockDealService) Create(_ context.Context, _ service.CreateDealParams) (*model.Deal, []model.DueDiligenceItem, error) {
	return nil, nil, nil
}

func (m *mockDealService) Get(_ context.Context, dealID int64) (*model.Deal, error) {
	return &model.Deal{ID: dealID}, nil
}

func (m *mockDealService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return nil, nil
}

func (m *mockDealService) Update(ctx context.Context, dealID, workspaceID, userID int64, updates service.DealUpdates) (*model.Deal, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, dealID, workspaceID, userID, updates)
	}
	return &model.Deal{ID: dealID}, nil
}

func (m *mockDealService) AddAnnotation(ctx context.Context, params service.AnnotationParams) (*model.Annotation, []int64, error) {
	if m.addAnnotationFn != nil {
		return m.addAnnotationFn(ctx, params)
	}
	return &model.Annotation{DealID: params.DealID, UserID: params.UserID, Content: params.Content}, nil, nil
}

func (m *mockDealService) ReplyToAnnotation(ctx context.Context, annotationID, workspaceID, userID int64, content string) (*model.Annotation, error) {
	if m.replyToAnnotationFn != nil {
		return m.replyToAnnotationFn(ctx, annotationID, workspaceID, userID, content)
	}
	return &model.Annotation{ID: annotationID}, nil
}

func (m *mockDealService) UpdateDiligenceItem(ctx context.Context, itemID, workspaceID, userID int64, updates service.DiligenceUpdates) (*model.DueDiligenceItem, bool, error) {
	if m.updateDiligenceItemFn != nil {
		return m.updateDiligenceItemFn(ctx, itemID, workspaceID, userID, updates)
	}
	return &model.DueDiligenceItem{ID: itemID}, false, nil
}

type mockVotingService struct {
	castVoteFn func(ctx context.Context, dealID, userID int64, vote model.VoteType, comment string) (*service.VoteResult, error)
}

func (m *mockVotingService) CastVote(ctx context.Context, dealID, userID int64, vote model.VoteType, comment string) (*service.VoteResult, error) {
	if m.castVoteFn != nil {
		return m.castVoteFn(ctx, dealID, userID, vote, comment)
	}
	return &service.VoteResult{Summary: model.VoteSummary{TotalVotes: 1}}, nil
}

func (m *mockVotingService) Summarize(_ map[int64]model.VoteType) model.VoteSummary {
	return model.VoteSummary{}
}

func (m *mockVotingService) QuorumMet(_ context.Context, _ *model.Deal, _ *model.Workspace) (bool, error) {
	return false, nil
}

func (m *mockVotingService) Finalize(_ context.Context, _ *model.Deal) (*model.ICDecision, model.VoteSummary, error) {
	return nil, model.VoteSummary{}, nil
}

type mockNotificationQueue struct {
	mu     sync.Mutex
	pushed map[int64][]model.Notification
	pushFn func(ctx context.Context, userID int64, n model.Notification) error
}

func (m *mockNotificationQueue) Push(ctx context.Context, userID int64, n model.Notification) error {
	if m.pushFn != nil {
		return m.pushFn(ctx, userID, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushed == nil {
		m.pushed = map[int64][]model.Notification{}
	}
	m.pushed[userID] = append(m.pushed[userID], n)
	return nil
}

func (m *mockNotificationQueue) Drain(_ context.Context, userID int64) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pushed[userID]
	delete(m.pushed, userID)
	return out, nil
}

func (m *mockNotificationQueue) Pending(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pushed[userID])), nil
}

func (m *mockNotificationQueue) pushedTo(userID int64) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushed[userID]
}
