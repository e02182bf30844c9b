package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// NotificationHandler turns order events into activity-feed rows. Wire it
// through JSONHandler, one registration per queue:
//
//	router.Register(queue.OrderCreatedQueue, queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: h.HandleOrderCreated})
type NotificationHandler struct {
	notes usecase.NotificationRepo
}

func NewNotificationHandler(notes usecase.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

func (h *NotificationHandler) HandleOrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return h.notes.Insert(ctx, &domain.Notification{
		ID:      uuid.NewString(),
		OrderID: msg.OrderID,
		Kind:    domain.NotifyOrderCreated,
		Message: fmt.Sprintf("new %s order for NGN %.2f", msg.PaymentMethod, domain.KoboToNaira(msg.AmountKobo)),
	})
}

func (h *NotificationHandler) HandleOrderReady(ctx context.Context, msg usecase.OrderReadyMsg) error {
	return h.notes.Insert(ctx, &domain.Notification{
		ID:      uuid.NewString(),
		OrderID: msg.OrderID,
		Kind:    domain.NotifyOrderReady,
		Message: "order is ready for pickup",
	})
}
