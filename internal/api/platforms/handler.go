package platforms

import (
	"net/http"

	"creator-platform/internal/api/render"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/domain/platforms"
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

func (h *Handler) response(p *platforms.Platform) PlatformResponse {
	return PlatformResponse{Platform: *p, PublicURL: h.svc.PublicURL(p)}
}

// POST /platforms
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	p, seeded, err := h.svc.CreatePlatform(c.Request.Context(), middleware.UserID(c), service.PlatformInput{
		Name:         req.Name,
		Subdomain:    req.Subdomain,
		Branding:     req.Branding.toDomain(),
		CustomDomain: req.CustomDomain,
	})
	if err != nil {
		render.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, CreatePlatformResponse{Platform: h.response(p), Tiers: seeded})
}

// GET /platforms
func (h *Handler) ListOwn(c *gin.Context) {
	list, err := h.svc.ListOwnPlatforms(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}

	out := make([]PlatformResponse, 0, len(list))
	for i := range list {
		out = append(out, h.response(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"platforms": out})
}

// GET /platforms/:id
func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.GetPlatform(c.Request.Context(), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.response(p))
}

// PUT /platforms/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	in := service.PlatformUpdate{
		Name:         req.Name,
		Subdomain:    req.Subdomain,
		CustomDomain: req.CustomDomain,
	}
	if req.Branding != nil {
		b := req.Branding.toDomain()
		in.Branding = &b
	}

	p, err := h.svc.UpdatePlatform(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.response(p))
}

// POST /platforms/:id/deploy
func (h *Handler) Deploy(c *gin.Context) {
	p, url, err := h.svc.Deploy(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, DeployResponse{Platform: h.response(p), URL: url})
}

// GET /platforms/:id/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
