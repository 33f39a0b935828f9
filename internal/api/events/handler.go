// Package events streams recompute notifications to a connected viewer
// over server-sent events.
package events

import (
	"context"
	"io"
	"time"

	contentapi "creator-platform/internal/api/content"
	"creator-platform/internal/api/render"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/infra/metrics"
	"creator-platform/internal/infra/notify"
	"creator-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultHeartbeat = 25 * time.Second
	queueSize        = 16
)

// Subscriber is the part of notify.Bus the stream needs.
type Subscriber interface {
	Subscribe(fn notify.Handler) (cancel func())
}

type Handler struct {
	svc       *service.Service
	bus       Subscriber
	guard     *service.StaleGuard
	log       *zap.Logger
	heartbeat time.Duration
}

func NewHandler(svc *service.Service, bus Subscriber, log *zap.Logger, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Handler{
		svc:       svc,
		bus:       bus,
		guard:     service.NewStaleGuard(),
		log:       log,
		heartbeat: heartbeat,
	}
}

// RecomputeEvent is sent after a change that may alter what the viewer
// sees. View is the freshly classified content.
type RecomputeEvent struct {
	Request access.RecomputeRequest `json:"request"`
	View    contentapi.ViewResponse `json:"view"`
}

type result struct {
	token uint64
	req   access.RecomputeRequest
	view  *service.ContentView
	err   error
}

// GET /platforms/:id/events
//
// The first event ("content") is the current view. Every relevant
// recompute request re-runs classification; when requests overlap only
// the newest result is sent.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	platformID := c.Param("id")
	userID := middleware.UserID(c)

	initial, err := h.svc.ViewContent(ctx, platformID, userID)
	if err != nil {
		render.Error(c, h.log, err)
		return
	}
	viewer := initial.Viewer

	queue := make(chan access.RecomputeRequest, queueSize)
	cancel := h.bus.Subscribe(func(req access.RecomputeRequest) {
		if !relevant(req, platformID, viewer) {
			return
		}
		select {
		case queue <- req:
		default:
			// a full queue already holds a pending recompute
		}
	})
	defer cancel()

	key := uuid.NewString()
	defer h.guard.Forget(key)

	metrics.StreamSubscribers.Inc()
	defer metrics.StreamSubscribers.Dec()

	log := h.log.With(zap.String("platform_id", platformID), zap.String("stream", key))
	log.Debug("event stream opened", zap.String("viewer", string(viewer.Kind)))

	results := make(chan result, queueSize)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("content", contentapi.NewViewResponse(initial))

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false

		case req := <-queue:
			token := h.guard.Begin(key)
			go h.recompute(ctx, token, req, platformID, userID, results)
			return true

		case res := <-results:
			if !h.guard.Current(key, res.token) {
				metrics.SupersededRecomputes.Inc()
				return true
			}
			if res.err != nil {
				log.Warn("recompute failed", zap.Error(res.err))
				c.SSEvent("error", gin.H{"error": "content could not be refreshed", "reason": res.req.Reason})
				return true
			}
			c.SSEvent("recompute", RecomputeEvent{Request: res.req, View: contentapi.NewViewResponse(res.view)})
			return true

		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})

	log.Debug("event stream closed")
}

func (h *Handler) recompute(
	ctx context.Context,
	token uint64,
	req access.RecomputeRequest,
	platformID, userID string,
	out chan<- result,
) {
	view, err := h.svc.ViewContent(ctx, platformID, userID)
	select {
	case out <- result{token: token, req: req, view: view, err: err}:
	case <-ctx.Done():
	}
}

// relevant reports whether req can change what viewer sees on platformID.
func relevant(req access.RecomputeRequest, platformID string, viewer access.Viewer) bool {
	if req.PlatformID != platformID {
		return false
	}
	if req.PlatformWide() || viewer.IsOwner() {
		return true
	}
	return viewer.UserID != "" && req.UserID == viewer.UserID
}
