package usecase

import (
	"context"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
)

// ConfirmPayment finishes what the gate starts: given a gateway reference
// (from the browser callback or the webhook), verify the transaction and
// apply the method-specific transition. PAY_ON_PICKUP orders complete
// (READY -> COMPLETED); PAY_ONLINE orders enter the wash queue
// (PENDING -> PROCESSING). The compare-and-set transition makes the
// callback/webhook race harmless: whoever lands second sees the work done.
type ConfirmPayment struct {
	orders  OrderRepo
	gateway PaymentGateway
	cache   StatusCache
}

func NewConfirmPayment(orders OrderRepo, gateway PaymentGateway, cache StatusCache) *ConfirmPayment {
	return &ConfirmPayment{orders: orders, gateway: gateway, cache: cache}
}

type ConfirmPaymentInput struct {
	Reference string
}

type ConfirmPaymentOutput struct {
	OrderID string
	Status  domain.Status
	Paid    bool
}

func (uc *ConfirmPayment) Execute(ctx context.Context, in ConfirmPaymentInput) (ConfirmPaymentOutput, error) {
	var out ConfirmPaymentOutput

	if in.Reference == "" {
		return out, domain.Errorf(domain.EINVALID, "payment reference is required")
	}

	v, err := uc.gateway.Verify(ctx, in.Reference)
	if err != nil {
		return out, domain.WrapError(err, domain.EPAYMENT, collaboratorMessage(err, "payment verification failed"))
	}
	out.OrderID = v.Metadata.OrderID
	if !v.Paid {
		return out, nil
	}
	if v.Metadata.OrderID == "" {
		return out, domain.Errorf(domain.EPAYMENT, "payment reference carries no order")
	}

	order, err := uc.orders.GetByID(ctx, v.Metadata.OrderID)
	if err != nil {
		return out, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "order not found"))
	}
	if v.AmountKobo > 0 && v.AmountKobo != order.AmountKobo {
		return out, domain.Errorf(domain.ECONFLICT, "paid amount does not match order amount")
	}

	from, to, err := paidTransition(order.PaymentMethod)
	if err != nil {
		return out, err
	}

	applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, from, to)
	if err != nil {
		return out, domain.WrapError(err, domain.EINTERNAL, "could not update order")
	}
	if !applied {
		// Callback and webhook race for the same transition; losing is fine
		// as long as the order ended up where the winner put it.
		current, err := uc.orders.GetByID(ctx, order.ID)
		if err != nil || current.Status != to {
			return out, domain.Errorf(domain.ECONFLICT, "order is not awaiting this payment")
		}
	}

	if err := uc.cache.SetStatus(ctx, order.ID, to); err != nil {
		logging.FromCtx(ctx).Warn("status cache refresh failed", "order_id", order.ID, "err", err)
	}

	out.Paid = true
	out.Status = to
	return out, nil
}

// paidTransition maps a payment method onto the stage change a successful
// charge causes. Transfer orders are settled at the front desk and never
// reach the gateway.
func paidTransition(m domain.PaymentMethod) (from, to domain.Status, err error) {
	switch m {
	case domain.PayOnPickup:
		return domain.StatusReady, domain.StatusCompleted, nil
	case domain.PayOnline:
		return domain.StatusPending, domain.StatusProcessing, nil
	default:
		return "", "", domain.Errorf(domain.EINVALID, "order does not use gateway payment")
	}
}
