package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"creator-platform/internal/api/apitest"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamRecorder is a ResponseRecorder that gin can stream to and the
// test can read from concurrently.
type streamRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{rec: httptest.NewRecorder()}
}

func (r *streamRecorder) Header() http.Header { return r.rec.Header() }

func (r *streamRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Write(b)
}

func (r *streamRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.WriteHeader(code)
}

func (r *streamRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Flush()
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func (r *streamRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Body.String()
}

func setup(t *testing.T) (*apitest.Env, string) {
	t.Helper()
	env := apitest.New(t)
	h := NewHandler(env.Svc, env.Bus, env.Log, time.Hour)
	env.Optional.GET("/platforms/:id/events", h.Stream)

	p, _, err := env.Svc.CreatePlatform(context.Background(), "owner-1", service.PlatformInput{Name: "Stream Studio"})
	require.NoError(t, err)
	return env, p.ID
}

func open(t *testing.T, env *apitest.Env, path, userID string) (*streamRecorder, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+apitest.Token(t, userID))
	}

	rec := newStreamRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.Router.ServeHTTP(rec, req)
	}()

	return rec, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("stream did not close after the request was cancelled")
		}
	}
}

func TestStream_SendsInitialViewAndRecomputes(t *testing.T) {
	env, pid := setup(t)
	rec, closeStream := open(t, env, "/platforms/"+pid+"/events", "fan-1")
	defer closeStream()

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event:content")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, env.Bus.Subscribers())

	ctx := context.Background()
	it, err := env.Svc.CreateContent(ctx, "owner-1", pid, service.ContentInput{Title: "New drop", Type: "video"})
	require.NoError(t, err)
	_, err = env.Svc.PublishContent(ctx, "owner-1", it.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event:recompute")
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, rec.Body(), "New drop")
	assert.Contains(t, rec.Body(), string(access.ReasonCatalogChange))
}

func TestStream_UnknownPlatform(t *testing.T) {
	env, _ := setup(t)
	w := env.Do(t, http.MethodGet, "/platforms/missing/events", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStream_UnsubscribesOnClose(t *testing.T) {
	env, pid := setup(t)
	rec, closeStream := open(t, env, "/platforms/"+pid+"/events", "")

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event:content")
	}, time.Second, 10*time.Millisecond)

	closeStream()
	assert.Zero(t, env.Bus.Subscribers())
}

func TestRelevant(t *testing.T) {
	member := access.Member("fan-1", nil)
	owner := access.Owner("owner-1")
	anon := access.Anonymous()

	wide := access.RecomputeRequest{PlatformID: "p1", Reason: access.ReasonCatalogChange}
	mine := access.RecomputeRequest{PlatformID: "p1", MemberID: "m1", UserID: "fan-1"}
	theirs := access.RecomputeRequest{PlatformID: "p1", MemberID: "m2", UserID: "fan-2"}
	elsewhere := access.RecomputeRequest{PlatformID: "p2"}

	tests := []struct {
		name   string
		req    access.RecomputeRequest
		viewer access.Viewer
		want   bool
	}{
		{"platform-wide reaches anonymous", wide, anon, true},
		{"own change", mine, member, true},
		{"someone else's change", theirs, member, false},
		{"someone else's change, anonymous", theirs, anon, false},
		{"owner sees member changes", theirs, owner, true},
		{"other platform", elsewhere, owner, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.req, "p1", tt.viewer))
		})
	}
}
