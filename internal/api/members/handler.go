package members

import (
	"net/http"

	"creator-platform/internal/api/render"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/domain/members"
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

// POST /platforms/:id/join
func (h *Handler) Join(c *gin.Context) {
	m, created, err := h.svc.JoinPlatform(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"member": m, "created": created})
}

// GET /platforms/:id/me
func (h *Handler) Me(c *gin.Context) {
	view, err := h.svc.Me(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /platforms/:id/members
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.ListMembers(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": list})
}

// PUT /members/:id/tier
func (h *Handler) ChangeTier(c *gin.Context) {
	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	res, err := h.svc.ChangeMemberTier(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.TierID)
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /members/:id/tier
func (h *Handler) Cancel(c *gin.Context) {
	res, err := h.svc.CancelMembership(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /members/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	res, err := h.svc.SetMemberStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), members.Status(req.Status))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
