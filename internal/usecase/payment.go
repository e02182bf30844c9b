package usecase

import (
	"errors"
	"strings"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

// Payment-type tags carried in gateway metadata, one per charging flow.
const (
	PaymentTypePickup = "pay_on_pickup"
	PaymentTypeOnline = "pay_online"
)

// PaymentCallbackPath is the fixed path the gateway redirects customers to;
// the full callback URL is the configured base application URL plus this.
const PaymentCallbackPath = "/payments/callback"

// buildPaymentRequest assembles one gateway initiation for an order. The
// amount is the order's stored kobo value; no unit conversion happens here.
func buildPaymentRequest(o *domain.Order, profile *domain.User, paymentType, baseURL, currency string) PaymentRequest {
	return PaymentRequest{
		Email:       profile.Email,
		AmountKobo:  o.AmountKobo,
		Currency:    currency,
		CallbackURL: strings.TrimRight(baseURL, "/") + PaymentCallbackPath,
		Metadata: PaymentMetadata{
			OrderID:      o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: profile.DisplayName(),
			Phone:        profile.Phone.Normalize(),
			PaymentType:  paymentType,
		},
	}
}

// collaboratorMessage surfaces a collaborator's own message when it has one,
// falling back to ours for raw infrastructure errors.
func collaboratorMessage(err error, fallback string) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
