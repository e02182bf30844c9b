package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabzlaundry/gab/internal/adapter/http/middleware"
	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/gabzlaundry/gab/internal/usecase"
)

type PaymentHandler struct {
	pickup  *usecase.InitiatePickupPayment
	confirm *usecase.ConfirmPayment
}

func NewPaymentHandler(pickup *usecase.InitiatePickupPayment, confirm *usecase.ConfirmPayment) *PaymentHandler {
	return &PaymentHandler{pickup: pickup, confirm: confirm}
}

// InitiatePickupPayment opens a hosted checkout for a READY pay-on-pickup
// order. The order comes from the path, the customer from the token; the
// usecase decides everything else.
// POST /v1/orders/:id/pay-on-pickup
func (h *PaymentHandler) InitiatePickupPayment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.pickup.Execute(ctx, usecase.InitiatePickupPaymentInput{
		OrderID:    c.Param("id"),
		CustomerID: middleware.UserID(c),
	})
	if err != nil {
		middleware.ObservePaymentInitiation(usecase.PaymentTypePickup, "failed")
		fail(c, err)
		return
	}

	middleware.ObservePaymentInitiation(usecase.PaymentTypePickup, "ok")
	c.JSON(http.StatusOK, gin.H{
		"checkoutUrl": out.CheckoutURL,
		"reference":   out.Reference,
	})
}

// Callback lands the customer back from the gateway's checkout page.
// GET /payments/callback?reference=...
func (h *PaymentHandler) Callback(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.confirm.Execute(ctx, usecase.ConfirmPaymentInput{
		Reference: c.Query("reference"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId": out.OrderID,
		"status":  out.Status,
		"paid":    out.Paid,
	})
}

// webhookEvent is the slice of a Paystack delivery we act on.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// Webhook handles signed gateway deliveries. Only charge.success moves an
// order; every verified delivery is answered 200 so the gateway stops
// retrying.
// POST /webhooks/paystack
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var ev webhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed webhook payload"))
		return
	}

	if ev.Event != "charge.success" {
		c.JSON(http.StatusOK, gin.H{"ignored": ev.Event})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.confirm.Execute(ctx, usecase.ConfirmPaymentInput{Reference: ev.Data.Reference})
	if err != nil {
		// Conflicts are permanent (amount mismatch, order moved on); answer
		// 200 so the gateway stops retrying, and keep the detail in the log.
		if domain.ErrorCode(err) == domain.ECONFLICT {
			logging.From(c).Warn("webhook not applied", "reference", ev.Data.Reference, "err", err)
			c.JSON(http.StatusOK, gin.H{"ok": false})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": out.OrderID, "status": out.Status, "paid": out.Paid})
}
