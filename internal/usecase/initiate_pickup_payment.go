package usecase

import (
	"context"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

// InitiatePickupPayment decides whether an order may proceed to a
// pay-on-pickup checkout and, if so, opens a hosted payment session.
//
// The guard sequence is ordered and each failure short-circuits with its own
// code: identifiers present, order exists, order belongs to the caller, order
// is READY, order uses PAY_ON_PICKUP, customer profile resolves. Ownership is
// checked before state on purpose: "not yours" must never be reported as
// "not ready". Exactly one gateway call is made per invocation; nothing is
// retried, deduplicated, or mutated locally.
type InitiatePickupPayment struct {
	orders   OrderRepo
	users    UserDirectory
	gateway  PaymentGateway
	baseURL  string
	currency string
}

func NewInitiatePickupPayment(orders OrderRepo, users UserDirectory, gateway PaymentGateway, baseURL, currency string) *InitiatePickupPayment {
	return &InitiatePickupPayment{
		orders:   orders,
		users:    users,
		gateway:  gateway,
		baseURL:  baseURL,
		currency: currency,
	}
}

type InitiatePickupPaymentInput struct {
	OrderID    string
	CustomerID string
}

type InitiatePickupPaymentOutput struct {
	CheckoutURL string
	Reference   string
}

func (uc *InitiatePickupPayment) Execute(ctx context.Context, in InitiatePickupPaymentInput) (InitiatePickupPaymentOutput, error) {
	var out InitiatePickupPaymentOutput

	if in.OrderID == "" || in.CustomerID == "" {
		return out, domain.Errorf(domain.EINVALID, "orderId and customerId are required")
	}

	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return out, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "order not found"))
	}

	if order.CustomerID != in.CustomerID {
		return out, domain.Errorf(domain.EUNAUTHORIZED, "order does not belong to this customer")
	}

	if order.Status != domain.StatusReady {
		return out, domain.Errorf(domain.EINVALID, "order is not ready for pickup payment (status %s)", order.Status)
	}

	if order.PaymentMethod != domain.PayOnPickup {
		return out, domain.Errorf(domain.EINVALID, "order is not a pay-on-pickup order")
	}

	profile, err := uc.users.GetByID(ctx, in.CustomerID)
	if err != nil {
		return out, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "customer not found"))
	}

	req := buildPaymentRequest(order, profile, PaymentTypePickup, uc.baseURL, uc.currency)

	session, err := uc.gateway.Initialize(ctx, req)
	if err != nil {
		return out, domain.WrapError(err, domain.EPAYMENT, collaboratorMessage(err, "payment initialization failed"))
	}
	if session == nil || session.AuthorizationURL == "" {
		return out, domain.Errorf(domain.EPAYMENT, "payment initialization failed")
	}

	out.CheckoutURL = session.AuthorizationURL
	out.Reference = session.Reference
	return out, nil
}
