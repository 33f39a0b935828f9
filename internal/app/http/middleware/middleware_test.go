package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"creator-platform/internal/infra/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, secret, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func whoami(required bool) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(auth.NewHMACVerifier("secret"), required))
	r.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, "user=%s", UserID(c))
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		required bool
		header   string
		status   int
		body     string
	}{
		{name: "optional anonymous", header: "", status: http.StatusOK, body: "user="},
		{name: "optional valid", header: "Bearer " + token(t, "secret", "u1"), status: http.StatusOK, body: "user=u1"},
		{name: "optional invalid", header: "Bearer " + token(t, "wrong", "u1"), status: http.StatusUnauthorized},
		{name: "required missing", required: true, header: "", status: http.StatusUnauthorized},
		{name: "required malformed", required: true, header: "Token abc", status: http.StatusUnauthorized},
		{name: "required valid", required: true, header: "Bearer " + token(t, "secret", "u2"), status: http.StatusOK, body: "user=u2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			whoami(tt.required).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func echo() *gin.Engine {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", b)
	})
	return r
}

func TestSanitize(t *testing.T) {
	body := `{"name":"Jane's <b>Pottery</b><script>alert(1)</script>","benefits":["<i>early</i> access"],"price":9.99}`
	w := httptest.NewRecorder()
	echo().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Jane&#39;s Pottery","benefits":["early access"],"price":9.99}`, w.Body.String())
}

func TestSanitize_EncodedMarkupStaysEscaped(t *testing.T) {
	body := `{"title":"&lt;script&gt;alert(1)&lt;/script&gt;","tags":{"x":"&lt;img src=x onerror=alert(1)&gt;"}}`
	w := httptest.NewRecorder()
	echo().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Title string            `json:"title"`
		Tags  map[string]string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", got.Title)
	assert.NotContains(t, got.Title, "<")
	assert.NotContains(t, got.Tags["x"], "<")
}

func TestSanitize_EmptyAndMalformed(t *testing.T) {
	w := httptest.NewRecorder()
	echo().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	echo().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{nope")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
