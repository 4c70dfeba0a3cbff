package service_test

import (
	"context"

	"dealflow.app/hub/internal/model"
)

type mockWorkspaceStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Workspace, error)
	createFn  func(ctx context.Context, ws *model.Workspace) error
	updateFn  func(ctx context.Context, ws *model.Workspace) error
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ws)
	}
	return nil
}

type mockUserStore struct {
	getByIDFn   func(ctx context.Context, id int64) (*model.User, error)
	getByNameFn func(ctx context.Context, name string) (*model.User, error)
	createFn    func(ctx context.Context, user *model.User) error
	updateFn    func(ctx context.Context, user *model.User) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserStore) GetByName(ctx context.Context, name string) (*model.User, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

type mockDealStore struct {
	getByIDFn         func(ctx context.Context, id int64) (*model.Deal, error)
	createFn          func(ctx context.Context, deal *model.Deal) error
	updateFn          func(ctx context.Context, deal *model.Deal) error
	listByWorkspaceFn func(ctx context.Context, workspaceID int64) ([]model.Deal, error)
}

func (m *mockDealStore) GetByID(ctx context.Context, id int64) (*model.Deal, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDealStore) Create(ctx context.Context, deal *model.Deal) error {
	if m.createFn != nil {
		return m.createFn(ctx, deal)
	}
	return nil
}

func (m *mockDealStore) Update(ctx context.Context, deal *model.Deal) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, deal)
	}
	return nil
}

func (m *mockDealStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return nil, nil
}

type mockAnnotationStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Annotation, error)
	createFn  func(ctx context.Context, ann *model.Annotation) error
	updateFn  func(ctx context.Context, ann *model.Annotation) error
}

func (m *mockAnnotationStore) GetByID(ctx context.Context, id int64) (*model.Annotation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnnotationStore) Create(ctx context.Context, ann *model.Annotation) error {
	if m.createFn != nil {
		return m.createFn(ctx, ann)
	}
	return nil
}

func (m *mockAnnotationStore) Update(ctx context.Context, ann *model.Annotation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ann)
	}
	return nil
}

type mockDiligenceStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.DueDiligenceItem, error)
	createFn  func(ctx context.Context, item *model.DueDiligenceItem) error
	updateFn  func(ctx context.Context, item *model.DueDiligenceItem) error
}

func (m *mockDiligenceStore) GetByID(ctx context.Context, id int64) (*model.DueDiligenceItem, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDiligenceStore) Create(ctx context.Context, item *model.DueDiligenceItem) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	return nil
}

func (m *mockDiligenceStore) Update(ctx context.Context, item *model.DueDiligenceItem) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, item)
	}
	return nil
}
