package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contentapi "creator-platform/internal/api/content"
	eventsapi "creator-platform/internal/api/events"
	membersapi "creator-platform/internal/api/members"
	platformsapi "creator-platform/internal/api/platforms"
	stripewebhooks "creator-platform/internal/api/stripewebhook"
	tiersapi "creator-platform/internal/api/tiers"
	"creator-platform/internal/infra/auth"
	"creator-platform/internal/infra/notify"
	"creator-platform/internal/service"
	"creator-platform/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	bus := notify.NewBus()
	svc := service.New(store.NewMemoryStore(), service.Options{Bus: bus, Logger: log})

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Platforms: platformsapi.NewHandler(svc, log),
		Tiers:     tiersapi.NewHandler(svc, log),
		Members:   membersapi.NewHandler(svc, log),
		Content:   contentapi.NewHandler(svc, log),
		Events:    eventsapi.NewHandler(svc, bus, log, time.Minute),
		Stripe:    stripewebhooks.NewHandler(svc, "whsec", log),
	}, auth.NewHMACVerifier("secret"))
	return r
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAuthBoundaries(t *testing.T) {
	r := newRouter(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "owner-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	// required group rejects anonymous callers
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/platforms", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/platforms", strings.NewReader(`{"name":"<b>Night</b> Owls"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Night Owls"`)

	// optional group lets anonymous visitors through
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/platforms/unknown/tiers", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
