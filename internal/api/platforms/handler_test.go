package platforms

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"creator-platform/internal/api/apitest"
	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *apitest.Env {
	t.Helper()
	env := apitest.New(t)
	h := NewHandler(env.Svc, env.Log)

	env.Optional.GET("/platforms/:id", h.Get)
	env.Required.POST("/platforms", h.Create)
	env.Required.GET("/platforms", h.ListOwn)
	env.Required.PUT("/platforms/:id", h.Update)
	env.Required.POST("/platforms/:id/deploy", h.Deploy)
	env.Required.GET("/platforms/:id/dashboard", h.Dashboard)
	return env
}

func create(t *testing.T, env *apitest.Env, owner, name string) CreatePlatformResponse {
	t.Helper()
	w := env.Do(t, http.MethodPost, "/platforms", owner, CreatePlatformRequest{Name: name})
	apitest.RequireStatus(t, w, http.StatusCreated)
	return apitest.Decode[CreatePlatformResponse](t, w)
}

func TestCreatePlatform(t *testing.T) {
	env := setup(t)

	out := create(t, env, "owner-1", "Jane's Pottery")
	assert.Equal(t, "janes-pottery", out.Platform.Subdomain)
	assert.Equal(t, "owner-1", out.Platform.OwnerID)
	assert.Equal(t, platforms.StatusDraft, out.Platform.Status)
	assert.Equal(t, "https://janes-pottery.creators.test", out.Platform.PublicURL)
	require.Len(t, out.Tiers, 3)
	assert.Equal(t, 0.0, out.Tiers[0].MonthlyPrice)

	// same name: the derived subdomain gets an ID suffix
	second := create(t, env, "owner-2", "Jane's Pottery")
	assert.NotEqual(t, out.Platform.Subdomain, second.Platform.Subdomain)
	assert.True(t, strings.HasPrefix(second.Platform.Subdomain, "janes-pottery-"))

	// an explicitly chosen subdomain is not rewritten
	w := env.Do(t, http.MethodPost, "/platforms", "owner-3", CreatePlatformRequest{Name: "Other", Subdomain: "janes-pottery"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(apperr.KindConflict), apitest.ErrorCode(t, w))
}

func TestCreatePlatform_RequiresAuthAndName(t *testing.T) {
	env := setup(t)

	w := env.Do(t, http.MethodPost, "/platforms", "", CreatePlatformRequest{Name: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Do(t, http.MethodPost, "/platforms", "owner-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Do(t, http.MethodPost, "/platforms", "owner-1", CreatePlatformRequest{Name: "Fine", Subdomain: "Not A Label!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndListOwn(t *testing.T) {
	env := setup(t)
	a := create(t, env, "owner-1", "Alpha Studio")
	create(t, env, "owner-1", "Beta Studio")
	create(t, env, "owner-2", "Gamma Studio")

	w := env.Do(t, http.MethodGet, "/platforms/"+a.Platform.ID, "", nil)
	apitest.RequireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Alpha Studio", apitest.Decode[PlatformResponse](t, w).Name)

	w = env.Do(t, http.MethodGet, "/platforms/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.Do(t, http.MethodGet, "/platforms", "owner-1", nil)
	apitest.RequireStatus(t, w, http.StatusOK)
	list := apitest.Decode[struct {
		Platforms []PlatformResponse `json:"platforms"`
	}](t, w)
	assert.Len(t, list.Platforms, 2)
}

func TestUpdatePlatform(t *testing.T) {
	env := setup(t)
	p := create(t, env, "owner-1", "Alpha Studio")
	path := "/platforms/" + p.Platform.ID

	name := "Alpha Ceramics"
	domain := "Alpha.Example.com"
	w := env.Do(t, http.MethodPut, path, "owner-1", UpdatePlatformRequest{
		Name:         &name,
		CustomDomain: &domain,
		Branding:     &BrandingInput{PrimaryColor: "#112233"},
	})
	apitest.RequireStatus(t, w, http.StatusOK)
	got := apitest.Decode[PlatformResponse](t, w)
	assert.Equal(t, "Alpha Ceramics", got.Name)
	assert.Equal(t, "#112233", got.Branding.PrimaryColor)
	assert.Equal(t, "https://alpha.example.com", got.PublicURL)

	w = env.Do(t, http.MethodPut, path, "someone-else", UpdatePlatformRequest{Name: &name})
	assert.Equal(t, http.StatusForbidden, w.Code)

	bad := "#zzz"
	w = env.Do(t, http.MethodPut, path, "owner-1", UpdatePlatformRequest{Branding: &BrandingInput{PrimaryColor: bad}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeploy(t *testing.T) {
	env := setup(t)
	p := create(t, env, "owner-1", "Alpha Studio")
	path := "/platforms/" + p.Platform.ID + "/deploy"

	w := env.Do(t, http.MethodPost, path, "owner-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.Do(t, http.MethodPost, path, "owner-1", nil)
	apitest.RequireStatus(t, w, http.StatusOK)
	out := apitest.Decode[DeployResponse](t, w)
	assert.Equal(t, platforms.StatusActive, out.Platform.Status)
	assert.NotNil(t, out.Platform.DeployedAt)
	assert.Equal(t, "https://alpha-studio.creators.test", out.URL)

	w = env.Do(t, http.MethodPost, path, "owner-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDashboard(t *testing.T) {
	env := setup(t)
	p := create(t, env, "owner-1", "Alpha Studio")

	_, _, err := env.Svc.JoinPlatform(context.Background(), "fan-1", p.Platform.ID)
	require.NoError(t, err)

	w := env.Do(t, http.MethodGet, "/platforms/"+p.Platform.ID+"/dashboard", "owner-1", nil)
	apitest.RequireStatus(t, w, http.StatusOK)
	d := apitest.Decode[service.Dashboard](t, w)
	assert.Len(t, d.Tiers, 3)
	assert.Len(t, d.Members, 1)
	assert.Equal(t, 1, d.Stats.Members)
	assert.Empty(t, d.MembersError)

	w = env.Do(t, http.MethodGet, "/platforms/"+p.Platform.ID+"/dashboard", "fan-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
