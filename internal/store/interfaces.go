package store

import (
	"context"

	"dealflow.app/hub/internal/model"
)

// WorkspaceStore defines the contract for workspace persistence
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
}

// UserStore defines the contract for user persistence
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// DealStore defines the contract for deal persistence
type DealStore interface {
	GetByID(ctx context.Context, id int64) (*model.Deal, error)
	Create(ctx context.Context, deal *model.Deal) error
	Update(ctx context.Context, deal *model.Deal) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Deal, error)
}

// AnnotationStore defines the contract for annotation persistence
type AnnotationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Annotation, error)
	Create(ctx context.Context, ann *model.Annotation) error
	Update(ctx context.Context, ann *model.Annotation) error
}

// DiligenceStore defines the contract for due diligence item persistence
type DiligenceStore interface {
	GetByID(ctx context.Context, id int64) (*model.DueDiligenceItem, error)
	Create(ctx context.Context, item *model.DueDiligenceItem) error
	Update(ctx context.Context, item *model.DueDiligenceItem) error
}

// NotificationQueue is the durable per-user offline notification queue.
// Push is at-least-once: a live recipient may see the same event twice.
type NotificationQueue interface {
	Push(ctx context.Context, userID int64, n model.Notification) error
	Drain(ctx context.Context, userID int64) ([]model.Notification, error)
	Pending(ctx context.Context, userID int64) (int64, error)
}
