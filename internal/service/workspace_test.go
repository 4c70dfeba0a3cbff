package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
	"dealflow.app/hub/internal/store"
)

var _ = Describe("WorkspaceService", func() {
	var (
		svc        service.WorkspaceService
		workspaces *mockWorkspaceStore
		ctx        context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		workspaces = &mockWorkspaceStore{}

		err := id.Init(1)
		Expect(err).NotTo(HaveOccurred())

		svc = service.NewWorkspaceService(workspaces)
	})

	Describe("Create", func() {
		It("should make the creator the first member", func() {
			var captured *model.Workspace
			workspaces.createFn = func(_ context.Context, ws *model.Workspace) error {
				captured = ws
				return nil
			}

			ws, err := svc.Create(ctx, "Growth Fund II", 7, 1, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(ws.ID).NotTo(BeZero())
			Expect(ws.Members).To(Equal([]int64{1}))
			Expect(ws.CreatedBy).To(Equal(int64(1)))
			Expect(captured).NotTo(BeNil())
		})
	})

	Describe("Get", func() {
		It("should return ErrWorkspaceNotFound for a missing workspace", func() {
			workspaces.getByIDFn = func(_ context.Context, _ int64) (*model.Workspace, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Get(ctx, 10)
			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})
	})

	Describe("AddMember", func() {
		var ws *model.Workspace

		BeforeEach(func() {
			ws = &model.Workspace{ID: 10, Members: []int64{1}}
			workspaces.getByIDFn = func(_ context.Context, _ int64) (*model.Workspace, error) {
				return ws, nil
			}
		})

		It("should append the new member", func() {
			updated, err := svc.AddMember(ctx, 10, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Members).To(Equal([]int64{1, 2}))
		})

		It("should refuse to add an existing member twice", func() {
			_, err := svc.AddMember(ctx, 10, 1)
			Expect(err).To(MatchError(service.ErrAlreadyMember))
		})
	})
})
