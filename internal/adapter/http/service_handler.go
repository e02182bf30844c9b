package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

type ServiceHandler struct {
	catalog usecase.ServiceRepo
}

func NewServiceHandler(catalog usecase.ServiceRepo) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// serviceReq prices in naira at the boundary; storage is kobo.
type serviceReq struct {
	Name       string  `json:"name" binding:"required"`
	Unit       string  `json:"unit" binding:"required"`
	PriceNaira float64 `json:"priceNaira" binding:"required,gt=0"`
	Active     *bool   `json:"active"`
}

// List returns the active catalog. ?all=true includes retired services.
// GET /v1/services
func (h *ServiceHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	services, err := h.catalog.List(ctx, c.Query("all") != "true")
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(services))
	for i := range services {
		out = append(out, serviceBody(&services[i]))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

// Create adds a catalog entry.
// POST /v1/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed service payload"))
		return
	}

	svc := &domain.Service{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Unit:      req.Unit,
		PriceKobo: domain.NairaToKobo(req.PriceNaira),
		Active:    true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if err := svc.Validate(); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.catalog.Create(ctx, svc); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serviceBody(svc))
}

// Update replaces a catalog entry's fields.
// PUT /v1/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	var req serviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.Errorf(domain.EINVALID, "malformed service payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	svc, err := h.catalog.GetByID(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	svc.Name = req.Name
	svc.Unit = req.Unit
	svc.PriceKobo = domain.NairaToKobo(req.PriceNaira)
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if err := svc.Validate(); err != nil {
		fail(c, err)
		return
	}
	if err := h.catalog.Update(ctx, svc); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serviceBody(svc))
}

// Delete retires a catalog entry.
// DELETE /v1/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.catalog.Delete(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func serviceBody(s *domain.Service) gin.H {
	return gin.H{
		"id":         s.ID,
		"name":       s.Name,
		"unit":       s.Unit,
		"priceKobo":  s.PriceKobo,
		"priceNaira": domain.KoboToNaira(s.PriceKobo),
		"active":     s.Active,
	}
}
