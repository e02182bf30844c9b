package usecase

// OrderCreatedMsg goes out on RabbitMQ when intake accepts an order.
type OrderCreatedMsg struct {
	OrderID       string `json:"orderId"`
	CustomerID    string `json:"customerId"`
	AmountKobo    int64  `json:"amountKobo"`
	PaymentMethod string `json:"paymentMethod"`
}

// OrderReadyMsg goes out on RabbitMQ when an order reaches READY.
type OrderReadyMsg struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	AmountKobo int64  `json:"amountKobo"`
}

// StationEventMsg arrives on Kafka from the processing-station devices; the
// consumer maps station names onto lifecycle stages.
type StationEventMsg struct {
	OrderID string `json:"orderId"`
	Station string `json:"station"` // WASHING | DRYING | IRONING | RACK
	StaffID string `json:"staffId"`
}
