package usecase

import (
	"context"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
)

// UpdateOrderStatus applies a lifecycle transition requested by staff (HTTP)
// or by a processing station (Kafka). Legality comes from the domain flow
// table; application is a compare-and-set so concurrent updaters cannot
// double-apply. Reaching READY fans out the pickup notification.
type UpdateOrderStatus struct {
	orders OrderRepo
	cache  StatusCache
	events EventPublisher
}

func NewUpdateOrderStatus(orders OrderRepo, cache StatusCache, events EventPublisher) *UpdateOrderStatus {
	return &UpdateOrderStatus{orders: orders, cache: cache, events: events}
}

type UpdateOrderStatusInput struct {
	OrderID string
	Next    string
	StaffID string // empty for station events without an operator
}

type UpdateOrderStatusOutput struct {
	OrderID string
	From    domain.Status
	To      domain.Status
}

func (uc *UpdateOrderStatus) Execute(ctx context.Context, in UpdateOrderStatusInput) (UpdateOrderStatusOutput, error) {
	var out UpdateOrderStatusOutput

	if in.OrderID == "" {
		return out, domain.Errorf(domain.EINVALID, "orderId is required")
	}
	next, err := domain.ParseStatus(in.Next)
	if err != nil {
		return out, err
	}

	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return out, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "order not found"))
	}
	if !order.Status.CanTransition(next) {
		return out, domain.Errorf(domain.ECONFLICT, "cannot move order from %s to %s", order.Status, next)
	}

	applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, order.Status, next)
	if err != nil {
		return out, domain.WrapError(err, domain.EINTERNAL, "could not update order")
	}
	if !applied {
		return out, domain.Errorf(domain.ECONFLICT, "order changed concurrently, retry")
	}

	if in.StaffID != "" && order.AssignedStaffID == "" {
		if err := uc.orders.AssignStaff(ctx, order.ID, in.StaffID); err != nil {
			logging.FromCtx(ctx).Warn("staff assignment failed", "order_id", order.ID, "staff_id", in.StaffID, "err", err)
		}
	}

	if err := uc.cache.SetStatus(ctx, order.ID, next); err != nil {
		logging.FromCtx(ctx).Warn("status cache refresh failed", "order_id", order.ID, "err", err)
	}

	if next == domain.StatusReady {
		if err := uc.events.PublishOrderReady(ctx, OrderReadyMsg{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			AmountKobo: order.AmountKobo,
		}); err != nil {
			logging.FromCtx(ctx).Warn("order.ready publish failed", "order_id", order.ID, "err", err)
		}
	}

	out = UpdateOrderStatusOutput{OrderID: order.ID, From: order.Status, To: next}
	return out, nil
}
