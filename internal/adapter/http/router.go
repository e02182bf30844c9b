package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gabzlaundry/gab/internal/adapter/http/middleware"
	"github.com/gabzlaundry/gab/internal/security"
)

type Handlers struct {
	Auth      *AuthHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
	Services  *ServiceHandler
	Dashboard *DashboardHandler
}

func NewRouter(l *slog.Logger, h Handlers, authz *middleware.Authz, wv *middleware.WebhookVerify) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/v1/auth/register", h.Auth.Register)
	r.POST("/v1/auth/login", h.Auth.Login)

	// Gateway-facing surface: the customer's browser lands on the callback,
	// the signed webhook settles the charge even if the browser never returns.
	r.GET("/payments/callback", h.Payments.Callback)
	r.POST("/webhooks/paystack", wv.Verify(), h.Payments.Webhook)

	// Local dev helper for forging webhook deliveries.
	r.POST("/_test/sign-webhook", wv.SignWebhook())

	v1 := r.Group("/v1")
	{
		v1.GET("/services", h.Services.List)
		v1.POST("/services", authz.Require(security.PermServicesWrite), h.Services.Create)
		v1.PUT("/services/:id", authz.Require(security.PermServicesWrite), h.Services.Update)
		v1.DELETE("/services/:id", authz.Require(security.PermServicesWrite), h.Services.Delete)

		v1.POST("/orders", authz.Require(security.PermOrdersWrite), h.Orders.CreateOrder)
		v1.GET("/orders", authz.Require(security.PermOrdersRead), h.Orders.ListOrders)
		v1.GET("/orders/:id", authz.Require(security.PermOrdersRead), h.Orders.GetOrder)
		v1.GET("/orders/:id/status", authz.Require(security.PermOrdersRead), h.Orders.OrderStatus)
		v1.POST("/orders/:id/pay-on-pickup", authz.Require(security.PermOrdersPay), h.Payments.InitiatePickupPayment)
		v1.PATCH("/orders/:id/status", authz.Require(security.PermOrdersManage), h.Orders.UpdateStatus)

		v1.POST("/staff", authz.Require(security.PermStaffWrite), h.Auth.CreateStaff)

		dash := v1.Group("/dashboard", authz.Require(security.PermDashboardRead))
		{
			dash.GET("/summary", h.Dashboard.Summary)
			dash.GET("/customers/:id", h.Dashboard.CustomerStats)
			dash.GET("/staff/:id", h.Dashboard.StaffStats)
			dash.GET("/activity", h.Dashboard.Activity)
		}
	}

	return r
}
