package hub

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealflow.app/hub/internal/model"
)

var _ = Describe("Notifier", func() {
	var (
		notifier *Notifier
		registry *Registry
		queue    *mockNotificationQueue
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		registry = NewRegistry()
		queue = &mockNotificationQueue{}
		notifier = NewNotifier(registry, queue)
	})

	It("should assign an ID and timestamp before delivery", func() {
		err := notifier.Notify(ctx, 1, model.Notification{Type: model.NotificationMention})

		Expect(err).NotTo(HaveOccurred())
		pushed := queue.pushedTo(1)
		Expect(pushed).To(HaveLen(1))
		Expect(pushed[0].ID).NotTo(BeZero())
		Expect(pushed[0].CreatedAt).NotTo(BeZero())
	})

	It("should deliver live and still queue for a connected user", func() {
		conn := &fakeConn{}
		registry.Register(conn, 1, 10)

		err := notifier.Notify(ctx, 1, model.Notification{Type: model.NotificationDealShared})

		Expect(err).NotTo(HaveOccurred())
		Expect(conn.events()).To(HaveLen(1))
		Expect(queue.pushedTo(1)).To(HaveLen(1))
	})

	It("should only queue for an offline user", func() {
		err := notifier.Notify(ctx, 1, model.Notification{Type: model.NotificationMention})

		Expect(err).NotTo(HaveOccurred())
		Expect(queue.pushedTo(1)).To(HaveLen(1))
	})

	It("should drop a dead connection but still queue", func() {
		conn := &fakeConn{failWrites: true}
		registry.Register(conn, 1, 10)

		err := notifier.Notify(ctx, 1, model.Notification{Type: model.NotificationMention})

		Expect(err).NotTo(HaveOccurred())
		Expect(conn.isClosed()).To(BeTrue())
		_, ok := registry.UserConn(1)
		Expect(ok).To(BeFalse())
		Expect(queue.pushedTo(1)).To(HaveLen(1))
	})

	It("should surface a queue failure", func() {
		queue.pushFn = func(_ context.Context, _ int64, _ model.Notification) error {
			return errors.New("redis down")
		}

		err := notifier.Notify(ctx, 1, model.Notification{Type: model.NotificationMention})
		Expect(err).To(HaveOccurred())
	})
})
