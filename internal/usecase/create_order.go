package usecase

import (
	"context"
	"encoding/json"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/google/uuid"
)

// CreateOrder is the intake flow: price the requested catalog items, persist
// the order at PENDING, fan out order.created, and for PAY_ONLINE orders open
// the checkout session immediately.
type CreateOrder struct {
	orders   OrderRepo
	catalog  ServiceRepo
	users    UserDirectory
	gateway  PaymentGateway
	idem     IdempotencyStore
	events   EventPublisher
	baseURL  string
	currency string
}

func NewCreateOrder(orders OrderRepo, catalog ServiceRepo, users UserDirectory, gateway PaymentGateway, idem IdempotencyStore, events EventPublisher, baseURL, currency string) *CreateOrder {
	return &CreateOrder{
		orders:   orders,
		catalog:  catalog,
		users:    users,
		gateway:  gateway,
		idem:     idem,
		events:   events,
		baseURL:  baseURL,
		currency: currency,
	}
}

type OrderItemInput struct {
	ServiceID string
	Quantity  int
}

type CreateOrderInput struct {
	CustomerID     string
	IdempotencyKey string
	PaymentMethod  string
	Items          []OrderItemInput
}

type CreateOrderOutput struct {
	OrderID    string
	Status     domain.Status
	AmountKobo int64
	// Set only for PAY_ONLINE orders whose checkout opened successfully.
	CheckoutURL string
	Reference   string
}

// orderLine is the priced snapshot stored on the order, so catalog edits
// never reprice past orders.
type orderLine struct {
	ServiceID string `json:"serviceId"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	PriceKobo int64  `json:"priceKobo"`
	Quantity  int    `json:"quantity"`
	LineKobo  int64  `json:"lineKobo"`
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	var out CreateOrderOutput

	if in.CustomerID == "" {
		return out, domain.Errorf(domain.EINVALID, "customerId is required")
	}
	if len(in.Items) == 0 {
		return out, domain.Errorf(domain.EINVALID, "order needs at least one item")
	}
	method, err := domain.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return out, err
	}

	// Fast path: a repeated submission returns the order it already created.
	if in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, in.CustomerID, in.IdempotencyKey); ok {
			return CreateOrderOutput{OrderID: id, Status: domain.StatusPending}, nil
		}
		ok, err := uc.idem.TryLock(ctx, in.CustomerID, in.IdempotencyKey)
		if err != nil {
			return out, domain.WrapError(err, domain.EINTERNAL, "order intake unavailable")
		}
		if !ok {
			return out, domain.Errorf(domain.ECONFLICT, "duplicate order submission")
		}
	}

	profile, err := uc.users.GetByID(ctx, in.CustomerID)
	if err != nil {
		return out, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "customer not found"))
	}

	lines, total, err := uc.priceItems(ctx, in.Items)
	if err != nil {
		return out, err
	}
	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return out, domain.WrapError(err, domain.EINTERNAL, "could not snapshot order items")
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		Status:        domain.StatusPending,
		PaymentMethod: method,
		AmountKobo:    total,
		ItemsJSON:     string(itemsJSON),
	}
	if err := order.Validate(); err != nil {
		return out, err
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return out, domain.WrapError(err, domain.EINTERNAL, "could not create order")
	}

	if err := uc.events.PublishOrderCreated(ctx, OrderCreatedMsg{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		AmountKobo:    order.AmountKobo,
		PaymentMethod: string(order.PaymentMethod),
	}); err != nil {
		logging.FromCtx(ctx).Warn("order.created publish failed", "order_id", order.ID, "err", err)
	}

	if in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, in.CustomerID, in.IdempotencyKey, order.ID)
	}

	out = CreateOrderOutput{OrderID: order.ID, Status: order.Status, AmountKobo: order.AmountKobo}

	// PAY_ONLINE charges at intake. The order row survives an initiation
	// failure; retrying with the same idempotency key returns it.
	if method == domain.PayOnline {
		req := buildPaymentRequest(order, profile, PaymentTypeOnline, uc.baseURL, uc.currency)
		session, err := uc.gateway.Initialize(ctx, req)
		if err != nil {
			return out, domain.WrapError(err, domain.EPAYMENT, collaboratorMessage(err, "payment initialization failed"))
		}
		if session == nil || session.AuthorizationURL == "" {
			return out, domain.Errorf(domain.EPAYMENT, "payment initialization failed")
		}
		out.CheckoutURL = session.AuthorizationURL
		out.Reference = session.Reference
	}

	return out, nil
}

func (uc *CreateOrder) priceItems(ctx context.Context, items []OrderItemInput) ([]orderLine, int64, error) {
	lines := make([]orderLine, 0, len(items))
	var total int64
	for _, it := range items {
		if it.ServiceID == "" || it.Quantity <= 0 {
			return nil, 0, domain.Errorf(domain.EINVALID, "each item needs a service and a positive quantity")
		}
		svc, err := uc.catalog.GetByID(ctx, it.ServiceID)
		if err != nil {
			return nil, 0, domain.WrapError(err, domain.ENOTFOUND, collaboratorMessage(err, "service not found"))
		}
		if !svc.Active {
			return nil, 0, domain.Errorf(domain.EINVALID, "service %s is unavailable", svc.Name)
		}
		line := orderLine{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Unit:      svc.Unit,
			PriceKobo: svc.PriceKobo,
			Quantity:  it.Quantity,
			LineKobo:  svc.PriceKobo * int64(it.Quantity),
		}
		lines = append(lines, line)
		total += line.LineKobo
	}
	return lines, total, nil
}
