package usecase

import (
	"context"
	"time"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

// OrderRepo is the order store contract: lookups, creation, guarded status
// transitions, and the aggregate folds the dashboard reads.
type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Order, error)
	// UpdateStatusIf applies from->to atomically; false means the row was not
	// in the expected stage (or does not exist).
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error)
	// AssignStaff records the first staff member to touch the order.
	AssignStaff(ctx context.Context, orderID, staffID string) error

	CustomerStats(ctx context.Context, customerID string) (*OrderStats, error)
	StaffStats(ctx context.Context, staffID string) (*StaffActivity, error)
	StatusCounts(ctx context.Context) (map[domain.Status]int64, error)
	RevenueKobo(ctx context.Context) (int64, error)
}

// UserDirectory resolves and registers accounts (customers, staff, owner).
type UserDirectory interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, limit int) ([]domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// ServiceRepo is the laundry-services catalog.
type ServiceRepo interface {
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Service, error)
}

// NotificationRepo records and lists dashboard activity-feed entries.
type NotificationRepo interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListRecent(ctx context.Context, limit int) ([]domain.Notification, error)
}

// PaymentMetadata travels with a gateway transaction and comes back on
// verification, so the completion flow can find the order again.
type PaymentMetadata struct {
	OrderID      string `json:"order_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	PaymentType  string `json:"payment_type"`
}

// PaymentRequest is one hosted-checkout initiation. Amounts are kobo; the
// gateway is never asked to convert.
type PaymentRequest struct {
	Email       string
	AmountKobo  int64
	Currency    string
	CallbackURL string
	Metadata    PaymentMetadata
}

// PaymentSession is a successful initiation: where to send the customer and
// the reference to reconcile with later.
type PaymentSession struct {
	AuthorizationURL string
	Reference        string
}

// PaymentVerification is the gateway's word on a finished transaction.
type PaymentVerification struct {
	Reference  string
	Paid       bool
	AmountKobo int64
	Metadata   PaymentMetadata
}

// PaymentGateway is the hosted payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
	Verify(ctx context.Context, reference string) (*PaymentVerification, error)
}

// StatusCache serves the status-poll endpoint without hitting the store.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status domain.Status) error
	GetStatus(ctx context.Context, orderID string) (domain.Status, bool, error)
}

// StatsCache holds marshalled dashboard aggregates with a TTL.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any) error
}

// IdempotencyStore guards order intake against duplicate submissions.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// EventPublisher fans order events out to the notification exchange.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishOrderReady(ctx context.Context, msg OrderReadyMsg) error
}

// OrderStats is the per-customer aggregate fold.
type OrderStats struct {
	OrderCount   int64
	SpendKobo    int64
	FirstOrderAt *time.Time
	LastOrderAt  *time.Time
}

// StaffActivity is the per-staff aggregate fold.
type StaffActivity struct {
	HandledCount   int64
	CompletedCount int64
	LastActivityAt *time.Time
}
