package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/gabzlaundry/gab/internal/entity"
)

func paidVerification(orderID string, amountKobo int64) *PaymentVerification {
	return &PaymentVerification{
		Reference:  "REF123",
		Paid:       true,
		AmountKobo: amountKobo,
		Metadata:   PaymentMetadata{OrderID: orderID, CustomerID: "cus-1", PaymentType: PaymentTypePickup},
	}
}

func TestConfirmPayment_CompletesPickupOrder(t *testing.T) {
	orders := newFakeOrders(readyPickupOrder())
	cache := newFakeStatusCache()
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	out, err := NewConfirmPayment(orders, gw, cache).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.True(t, out.Paid)
	assert.Equal(t, "ord-1", out.OrderID)
	assert.Equal(t, domain.StatusCompleted, out.Status)
	assert.Equal(t, []string{"REF123"}, gw.verifiedRefs)

	stored, _ := orders.GetByID(context.Background(), "ord-1")
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, domain.StatusCompleted, cache.statuses["ord-1"])
}

func TestConfirmPayment_MovesOnlineOrderIntoWork(t *testing.T) {
	o := readyPickupOrder()
	o.Status = domain.StatusPending
	o.PaymentMethod = domain.PayOnline
	orders := newFakeOrders(o)
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	out, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, out.Status)
}

func TestConfirmPayment_RequiresReference(t *testing.T) {
	gw := &fakeGateway{}

	_, err := NewConfirmPayment(newFakeOrders(), gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{})

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Empty(t, gw.verifiedRefs)
}

func TestConfirmPayment_VerificationFailure(t *testing.T) {
	gw := &fakeGateway{verifyErr: domain.Errorf(domain.EPAYMENT, "transaction not found")}

	_, err := NewConfirmPayment(newFakeOrders(), gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.Error(t, err)
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
	assert.Equal(t, "transaction not found", domain.ErrorMessage(err))
}

func TestConfirmPayment_UnpaidIsNotAnError(t *testing.T) {
	orders := newFakeOrders(readyPickupOrder())
	v := paidVerification("ord-1", 500000)
	v.Paid = false
	gw := &fakeGateway{verification: v}

	out, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.False(t, out.Paid)
	assert.Equal(t, "ord-1", out.OrderID, "the caller still learns which order the reference belongs to")

	stored, _ := orders.GetByID(context.Background(), "ord-1")
	assert.Equal(t, domain.StatusReady, stored.Status, "an unpaid transaction moves nothing")
}

func TestConfirmPayment_PaidWithoutOrderMetadata(t *testing.T) {
	v := paidVerification("", 500000)
	gw := &fakeGateway{verification: v}

	_, err := NewConfirmPayment(newFakeOrders(), gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.Error(t, err)
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
}

func TestConfirmPayment_AmountMismatch(t *testing.T) {
	orders := newFakeOrders(readyPickupOrder())
	gw := &fakeGateway{verification: paidVerification("ord-1", 499999)}

	_, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	stored, _ := orders.GetByID(context.Background(), "ord-1")
	assert.Equal(t, domain.StatusReady, stored.Status)
}

func TestConfirmPayment_MissingAmountTolerated(t *testing.T) {
	// Some verification payloads omit the amount; the order's own record wins.
	orders := newFakeOrders(readyPickupOrder())
	gw := &fakeGateway{verification: paidVerification("ord-1", 0)}

	out, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.True(t, out.Paid)
}

func TestConfirmPayment_TransferOrdersNeverVerify(t *testing.T) {
	o := readyPickupOrder()
	o.PaymentMethod = domain.PayByTransfer
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	_, err := NewConfirmPayment(newFakeOrders(o), gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestConfirmPayment_LosingTheRaceIsFine(t *testing.T) {
	// The webhook already completed the order; the browser callback loses the
	// compare-and-set but finds the order where it wanted it.
	o := readyPickupOrder()
	o.Status = domain.StatusCompleted
	orders := newFakeOrders(o)
	orders.denyCAS = true
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	out, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.True(t, out.Paid)
	assert.Equal(t, domain.StatusCompleted, out.Status)
}

func TestConfirmPayment_StaleOrderStateConflicts(t *testing.T) {
	// CAS refused and the order is somewhere else entirely (cancelled while
	// the customer sat on the checkout page).
	o := readyPickupOrder()
	o.Status = domain.StatusCancelled
	orders := newFakeOrders(o)
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	_, err := NewConfirmPayment(orders, gw, newFakeStatusCache()).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestConfirmPayment_CacheWriteFailureTolerated(t *testing.T) {
	orders := newFakeOrders(readyPickupOrder())
	cache := newFakeStatusCache()
	cache.setErr = domain.Errorf(domain.EINTERNAL, "redis down")
	gw := &fakeGateway{verification: paidVerification("ord-1", 500000)}

	out, err := NewConfirmPayment(orders, gw, cache).Execute(context.Background(), ConfirmPaymentInput{Reference: "REF123"})

	require.NoError(t, err)
	assert.True(t, out.Paid)
}
