package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	gin.SetMode(gin.TestMode)
	type seen struct {
		route, method string
		hasRoute      bool
	}

	newEngine := func(cfg ProfilingConfig, got *seen) *gin.Engine {
		engine := gin.New()
		engine.Use(Profiling(cfg))
		capture := func(c *gin.Context) {
			ctx := c.Request.Context()
			got.route, got.hasRoute = pprof.Label(ctx, telemetry.ProfilingLabelRoute)
			got.method, _ = pprof.Label(ctx, telemetry.ProfilingLabelMethod)
			c.Status(http.StatusNoContent)
		}
		engine.PUT("/api/dashboard/invoices/:id", capture)
		engine.GET("/health", capture)
		engine.NoRoute(capture)
		return engine
	}

	serve := func(engine *gin.Engine, method, path string) {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
	}

	t.Run("labels with route pattern and method", func(t *testing.T) {
		var got seen
		serve(newEngine(ProfilingConfig{Enabled: true}, &got), http.MethodPut, "/api/dashboard/invoices/3958dc9e")

		assert.Equal(t, "/api/dashboard/invoices/:id", got.route)
		assert.Equal(t, http.MethodPut, got.method)
	})

	t.Run("unmatched route has no route label", func(t *testing.T) {
		var got seen
		serve(newEngine(ProfilingConfig{Enabled: true}, &got), http.MethodGet, "/wp-login.php")

		assert.False(t, got.hasRoute)
		assert.Equal(t, http.MethodGet, got.method)
	})

	t.Run("skipped paths are not labeled", func(t *testing.T) {
		var got seen
		serve(newEngine(ProfilingConfig{Enabled: true, SkipPaths: []string{"/health"}}, &got), http.MethodGet, "/health")

		assert.Empty(t, got.method)
	})

	t.Run("disabled", func(t *testing.T) {
		var got seen
		serve(newEngine(ProfilingConfig{}, &got), http.MethodPut, "/api/dashboard/invoices/1")

		assert.Empty(t, got.route)
		assert.Empty(t, got.method)
	})
}
