package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are request paths served without labels
	SkipPaths []string
}

// Profiling labels the profile samples of each request with its route
// pattern and method. Unmatched routes carry no route label so 404 scans
// do not create new label values.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		labels := telemetry.HTTPRequestLabels(c.FullPath(), c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
