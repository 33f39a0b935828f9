package tiers

import (
	"net/http"

	"creator-platform/internal/api/render"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc *service.Service
	log *zap.Logger
}

func NewHandler(svc *service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GET /platforms/:id/tiers
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.ListTiers(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": list})
}

// POST /platforms/:id/tiers
func (h *Handler) Create(c *gin.Context) {
	var req CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	t, err := h.svc.CreateTier(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.TierInput{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		Benefits:     req.Benefits,
		IsPopular:    req.IsPopular,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// PUT /tiers/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	t, err := h.svc.UpdateTier(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.TierUpdate{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		Benefits:     req.Benefits,
		IsPopular:    req.IsPopular,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /platforms/:id/tiers/seed
func (h *Handler) Seed(c *gin.Context) {
	list, created, err := h.svc.SeedDefaultTiers(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"tiers": list, "created": created})
}

// POST /platforms/:id/tiers/sync-stripe
func (h *Handler) SyncStripe(c *gin.Context) {
	report, err := h.svc.SyncStripePrices(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
