package routes

import (
	"net/http"

	contentapi "creator-platform/internal/api/content"
	eventsapi "creator-platform/internal/api/events"
	membersapi "creator-platform/internal/api/members"
	platformsapi "creator-platform/internal/api/platforms"
	stripewebhooks "creator-platform/internal/api/stripewebhook"
	tiersapi "creator-platform/internal/api/tiers"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/infra/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Platforms *platformsapi.Handler
	Tiers     *tiersapi.Handler
	Members   *membersapi.Handler
	Content   *contentapi.Handler
	Events    *eventsapi.Handler
	Stripe    *stripewebhooks.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers, verifier auth.Verifier) {
	// raw body: the signature covers the exact bytes
	r.POST("/webhook/stripe", h.Stripe.Webhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Anonymous visitors allowed; a bearer token identifies members.
	public := r.Group("/")
	public.Use(middleware.Authenticate(verifier, false))

	public.GET("/platforms/:id", h.Platforms.Get)
	public.GET("/platforms/:id/tiers", h.Tiers.List)
	public.GET("/platforms/:id/content", h.Content.View)
	public.GET("/platforms/:id/me", h.Members.Me)
	public.GET("/platforms/:id/events", h.Events.Stream)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.Authenticate(verifier, true))
	auth.Use(middleware.SanitizeAndCleanInputMiddleware())

	auth.POST("/platforms", h.Platforms.Create)
	auth.GET("/platforms", h.Platforms.ListOwn)
	auth.PUT("/platforms/:id", h.Platforms.Update)
	auth.POST("/platforms/:id/deploy", h.Platforms.Deploy)
	auth.GET("/platforms/:id/dashboard", h.Platforms.Dashboard)

	auth.POST("/platforms/:id/tiers", h.Tiers.Create)
	auth.POST("/platforms/:id/tiers/seed", h.Tiers.Seed)
	auth.POST("/platforms/:id/tiers/sync-stripe", h.Tiers.SyncStripe)
	auth.PUT("/tiers/:id", h.Tiers.Update)

	auth.POST("/platforms/:id/join", h.Members.Join)
	auth.GET("/platforms/:id/members", h.Members.List)
	auth.PUT("/members/:id/tier", h.Members.ChangeTier)
	auth.DELETE("/members/:id/tier", h.Members.Cancel)
	auth.PUT("/members/:id/status", h.Members.SetStatus)

	auth.GET("/platforms/:id/content/all", h.Content.ListAll)
	auth.POST("/platforms/:id/content", h.Content.Create)
	auth.PUT("/content/:id", h.Content.Update)
	auth.POST("/content/:id/publish", h.Content.Publish)
	auth.POST("/content/:id/unpublish", h.Content.Unpublish)
	auth.POST("/content/:id/schedule", h.Content.Schedule)
	auth.DELETE("/content/:id", h.Content.Delete)
}
