package content

import (
	"net/http"

	"creator-platform/internal/api/render"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/domain/content"
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

// GET /platforms/:id/content
func (h *Handler) View(c *gin.Context) {
	view, err := h.svc.ViewContent(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, NewViewResponse(view))
}

// GET /platforms/:id/content/all
func (h *Handler) ListAll(c *gin.Context) {
	items, err := h.svc.ListAllContent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": items})
}

// POST /platforms/:id/content
func (h *Handler) Create(c *gin.Context) {
	var req CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	it, err := h.svc.CreateContent(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.ContentInput{
		Title:        req.Title,
		Description:  req.Description,
		Type:         content.Type(req.Type),
		AccessTierID: req.AccessTierID,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// PUT /content/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	in := service.ContentUpdate{
		Title:           req.Title,
		Description:     req.Description,
		AccessTierID:    req.AccessTierID,
		ClearAccessTier: req.ClearAccessTier,
		ThumbnailURL:    req.ThumbnailURL,
	}
	if req.Type != nil {
		t := content.Type(*req.Type)
		in.Type = &t
	}

	it, err := h.svc.UpdateContent(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /content/:id/publish
func (h *Handler) Publish(c *gin.Context) {
	it, err := h.svc.PublishContent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /content/:id/unpublish
func (h *Handler) Unpublish(c *gin.Context) {
	it, err := h.svc.UnpublishContent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /content/:id/schedule
func (h *Handler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	it, err := h.svc.ScheduleContent(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.At)
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DELETE /content/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteContent(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		render.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
