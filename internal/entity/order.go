package domain

import "time"

// Status is an order's lifecycle stage. The flow is ordered: intake
// (PENDING), work in progress (PROCESSING), awaiting pickup/payment (READY),
// then COMPLETED. CANCELLED is terminal and reachable from any earlier stage.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusReady      Status = "READY"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentMethod selects how an order is charged. PAY_ON_PICKUP defers the
// charge until the READY stage; PAY_ONLINE charges at intake; PAY_BY_TRANSFER
// is settled manually at the front desk.
type PaymentMethod string

const (
	PayOnline     PaymentMethod = "PAY_ONLINE"
	PayOnPickup   PaymentMethod = "PAY_ON_PICKUP"
	PayByTransfer PaymentMethod = "PAY_BY_TRANSFER"
)

var statusFlow = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusReady, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

// CanTransition reports whether moving from s to next is a legal step.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusFlow[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool { return len(statusFlow[s]) == 0 }

// ParseStatus validates a wire-level status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusFlow[s]; !ok {
		return "", Errorf(EINVALID, "unknown order status %q", raw)
	}
	return s, nil
}

// ParsePaymentMethod validates a wire-level payment method string.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(raw); m {
	case PayOnline, PayOnPickup, PayByTransfer:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown payment method %q", raw)
}

// Order is a laundry order. Amounts are kobo. ItemsJSON is the priced line
// snapshot taken at intake so later catalog edits do not reprice the order.
type Order struct {
	ID              string
	CustomerID      string
	AssignedStaffID string // empty until a staff member takes the order
	Status          Status
	PaymentMethod   PaymentMethod
	AmountKobo      int64
	ItemsJSON       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return Errorf(EINVALID, "order requires a customer")
	}
	if o.AmountKobo <= 0 {
		return Errorf(EINVALID, "order amount must be positive")
	}
	if _, ok := statusFlow[o.Status]; !ok {
		return Errorf(EINVALID, "unknown order status %q", o.Status)
	}
	if _, err := ParsePaymentMethod(string(o.PaymentMethod)); err != nil {
		return err
	}
	return nil
}
