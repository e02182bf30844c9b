package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabzlaundry/gab/internal/usecase"
)

type DashboardHandler struct {
	dash *usecase.Dashboard
}

func NewDashboardHandler(dash *usecase.Dashboard) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

// Summary is the shop-wide view: orders by stage, revenue, headcounts.
// GET /v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.dash.Summary(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CustomerStats folds one customer's order history.
// GET /v1/dashboard/customers/:id
func (h *DashboardHandler) CustomerStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.dash.CustomerStats(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StaffStats folds one staff member's handled and completed orders.
// GET /v1/dashboard/staff/:id
func (h *DashboardHandler) StaffStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.dash.StaffStats(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Activity is the recent event feed written by the queue consumers.
// GET /v1/dashboard/activity?limit=
func (h *DashboardHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	notes, err := h.dash.Activity(ctx, limit)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(notes))
	for _, n := range notes {
		out = append(out, gin.H{
			"id":        n.ID,
			"orderId":   n.OrderID,
			"kind":      n.Kind,
			"message":   n.Message,
			"createdAt": n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"activity": out})
}
