package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabzlaundry/gab/internal/adapter/http/middleware"
	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/gabzlaundry/gab/internal/usecase"
)

type OrderHandler struct {
	create *usecase.CreateOrder
	status *usecase.UpdateOrderStatus
	orders usecase.OrderRepo
	cache  usecase.StatusCache
}

func NewOrderHandler(create *usecase.CreateOrder, status *usecase.UpdateOrderStatus, orders usecase.OrderRepo, cache usecase.StatusCache) *OrderHandler {
	return &OrderHandler{create: create, status: status, orders: orders, cache: cache}
}

type createOrderReq struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	Items         []struct {
		ServiceID string `json:"serviceId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,gt=0"`
	} `json:"items" binding:"required,dive"`
}

// CreateOrder books a new laundry order for the authenticated customer.
// POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed order payload"))
		return
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.OrderItemInput{ServiceID: it.ServiceID, Quantity: it.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		CustomerID:     middleware.UserID(c),
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"), // prevent duplicated requests
		PaymentMethod:  req.PaymentMethod,
		Items:          items,
	})
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"orderId":     out.OrderID,
		"status":      out.Status,
		"amountKobo":  out.AmountKobo,
		"amountNaira": domain.KoboToNaira(out.AmountKobo),
	}
	if out.CheckoutURL != "" {
		body["checkoutUrl"] = out.CheckoutURL
		body["reference"] = out.Reference
	}
	c.JSON(http.StatusCreated, body)
}

// GetOrder returns one order. Customers see only their own; staff and the
// owner see all.
// GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if middleware.Role(c) == string(domain.RoleCustomer) && order.CustomerID != middleware.UserID(c) {
		fail(c, domain.Errorf(domain.EUNAUTHORIZED, "order does not belong to this customer"))
		return
	}

	c.JSON(http.StatusOK, orderBody(order))
}

// ListOrders returns the caller's orders; staff and the owner filter the
// whole book by status or customer.
// GET /v1/orders?status=&customerId=&limit=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, domain.Errorf(domain.EINVALID, "limit must be a number"))
			return
		}
		limit = n
	}

	var (
		orders []domain.Order
		err    error
	)
	switch {
	case middleware.Role(c) == string(domain.RoleCustomer):
		orders, err = h.orders.ListByCustomer(ctx, middleware.UserID(c), limit)
	case c.Query("customerId") != "":
		orders, err = h.orders.ListByCustomer(ctx, c.Query("customerId"), limit)
	case c.Query("status") != "":
		var status domain.Status
		if status, err = domain.ParseStatus(c.Query("status")); err == nil {
			orders, err = h.orders.ListByStatus(ctx, status, limit)
		}
	default:
		fail(c, domain.Errorf(domain.EINVALID, "status or customerId filter is required"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderBody(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// OrderStatus is the poll endpoint: Redis first, store on a miss.
// GET /v1/orders/:id/status
func (h *OrderHandler) OrderStatus(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if status, ok, err := h.cache.GetStatus(ctx, id); err == nil && ok {
		c.JSON(http.StatusOK, gin.H{"orderId": id, "status": status, "source": "cache"})
		return
	}

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.cache.SetStatus(ctx, order.ID, order.Status); err != nil {
		logging.From(c).Warn("status cache refresh failed", "order_id", order.ID, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"orderId": order.ID, "status": order.Status, "source": "store"})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies a staff-driven lifecycle transition.
// PATCH /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed status payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.status.Execute(ctx, usecase.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Next:    req.Status,
		StaffID: middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": out.OrderID, "from": out.From, "to": out.To})
}

func orderBody(o *domain.Order) gin.H {
	items := json.RawMessage(o.ItemsJSON)
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	body := gin.H{
		"id":            o.ID,
		"customerId":    o.CustomerID,
		"status":        o.Status,
		"paymentMethod": o.PaymentMethod,
		"amountKobo":    o.AmountKobo,
		"amountNaira":   domain.KoboToNaira(o.AmountKobo),
		"items":         items,
		"createdAt":     o.CreatedAt,
		"updatedAt":     o.UpdatedAt,
	}
	if o.AssignedStaffID != "" {
		body["assignedStaffId"] = o.AssignedStaffID
	}
	return body
}
