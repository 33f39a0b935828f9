package stripewebhooks

import (
	"errors"
	"io"
	"net/http"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/infra/stripe"
	"creator-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBodyBytes = 65536

type Handler struct {
	svc    *service.Service
	secret string
	log    *zap.Logger
}

func NewHandler(svc *service.Service, webhookSecret string, log *zap.Logger) *Handler {
	return &Handler{svc: svc, secret: webhookSecret, log: log}
}

// POST /webhook/stripe
//
// Stripe retries on any non-2xx answer, so only failures that a retry can
// fix (a store outage) return 500. Events that can never be applied are
// acknowledged and logged.
func (h *Handler) Webhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := stripe.ParseEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		h.log.Warn("stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	log := h.log.With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	change, ok, err := stripe.ChangeFromEvent(event)
	if !ok {
		// acknowledge unrelated events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if err != nil {
		log.Warn("unusable subscription event", zap.Error(err))
		if errors.Is(err, stripe.ErrIncompleteSubscription) {
			c.JSON(http.StatusOK, gin.H{"status": "skipped"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
		return
	}

	h.apply(c, log, change)
}

func (h *Handler) apply(c *gin.Context, log *zap.Logger, change stripe.SubscriptionChange) {
	log = log.With(
		zap.String("subscription_id", change.SubscriptionID),
		zap.String("platform_id", change.PlatformID),
		zap.String("user_id", change.UserID),
	)

	res, err := h.svc.ApplySubscription(c.Request.Context(), change)
	switch {
	case err == nil:
		log.Info("subscription applied",
			zap.String("status", string(res.Member.Status)),
			zap.String("reason", string(res.Request.Reason)),
			zap.Bool("stale", res.Stale),
		)
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case errors.Is(err, members.ErrOutOfOrder):
		log.Info("subscription event superseded by a newer one", zap.Time("created", change.At))
		c.JSON(http.StatusOK, gin.H{"status": "outdated"})

	case apperr.IsRetryable(err), errors.Is(err, service.ErrBusy):
		log.Error("subscription not applied, stripe will retry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.PublicMessage(err)})

	default:
		// unknown platform or foreign tier; a retry would fail the same way
		log.Warn("subscription skipped", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "skipped"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
