package domain

import "time"

// Notification kinds, matching the routing keys they are consumed from.
const (
	NotifyOrderCreated = "order.created"
	NotifyOrderReady   = "order.ready"
)

// Notification is a dashboard activity-feed entry recorded by the event
// consumer when an order is created or becomes ready for pickup.
type Notification struct {
	ID        string
	OrderID   string
	Kind      string
	Message   string
	CreatedAt time.Time
}
