package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("upstream:\n  base_url: http://api.test\nlogger:\n  development: true\n"))
	require.NoError(t, err)
	return cfg
}

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter(testConfig(t), Services{}, zap.NewNop())

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /flights",
		"GET /flights/:id",
		"GET /airports",
		"POST /drafts",
		"GET /drafts/:id",
		"DELETE /drafts/:id",
		"POST /drafts/:id/passengers",
		"DELETE /drafts/:id/passengers/:index",
		"PATCH /drafts/:id/passengers/:index",
		"POST /drafts/:id/passengers/:index/addons/:addonId",
		"POST /drafts/:id/submit",
		"GET /bookings",
		"GET /bookings/:id",
		"POST /bookings/:id/confirm",
		"POST /bookings/:id/cancel",
		"POST /auth/login",
		"POST /auth/register",
		"GET /healthz",
	} {
		assert.True(t, routes[want], want)
	}
	assert.False(t, routes["GET /docs/*any"], "swagger is off without a swagger dir")
}

func TestHealthz(t *testing.T) {
	healthy := Services{Probes: map[string]Probe{
		"redis": func(context.Context) error { return nil },
	}}
	w := httptest.NewRecorder()
	NewRouter(testConfig(t), healthy, zap.NewNop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	broken := Services{Probes: map[string]Probe{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("down") },
	}}
	w = httptest.NewRecorder()
	NewRouter(testConfig(t), broken, zap.NewNop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "postgres")
}

func TestRunProbes_SortsFailures(t *testing.T) {
	fail := func(context.Context) error { return errors.New("down") }
	failed := runProbes(context.Background(), map[string]Probe{"redis": fail, "kafka": fail, "postgres": func(context.Context) error { return nil }})
	assert.Equal(t, []string{"kafka", "redis"}, failed)
}
