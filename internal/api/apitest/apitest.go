// Package apitest wires a memory-backed service behind a gin engine for
// handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/infra/auth"
	"creator-platform/internal/infra/notify"
	"creator-platform/internal/service"
	"creator-platform/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const Secret = "test-secret"

type Env struct {
	Store  *store.MemoryStore
	Bus    *notify.Bus
	Svc    *service.Service
	Log    *zap.Logger
	Router *gin.Engine
	// Optional and Required are groups behind the bearer middleware.
	Optional *gin.RouterGroup
	Required *gin.RouterGroup
}

func New(t *testing.T, opts ...func(*service.Options)) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	bus := notify.NewBus()
	o := service.Options{Bus: bus, Logger: log, BaseDomain: "creators.test"}
	for _, fn := range opts {
		fn(&o)
	}

	r := gin.New()
	v := auth.NewHMACVerifier(Secret)
	return &Env{
		Store:    st,
		Bus:      bus,
		Svc:      service.New(st, o),
		Log:      log,
		Router:   r,
		Optional: r.Group("/", middleware.Authenticate(v, false)),
		Required: r.Group("/", middleware.Authenticate(v, true)),
	}
}

func Token(t *testing.T, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
	}).SignedString([]byte(Secret))
	require.NoError(t, err)
	return s
}

// Do sends a JSON request as userID ("" for anonymous).
func (e *Env) Do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+Token(t, userID))
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the recorded body into a fresh T.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ErrorCode returns the "code" of a rendered error.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
