package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

// healthTimeout bounds all dependency checks of one health request
const healthTimeout = 3 * time.Second

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	logger    *zap.Logger
}

// NewSystemHandler creates a new SystemHandler. checks maps a dependency
// name (e.g. "database") to its check.
func NewSystemHandler(name, version string, checks map[string]HealthCheck, logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		logger:    logger,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthResponse reports the status of each dependency
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health checks every dependency concurrently. Any failure turns the whole
// response into a 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	errs := make(map[string]error, len(h.checks))
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	outcome := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		check := h.checks[name]
		g.Go(func() error {
			outcome[i] = check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	healthy := true
	for i, name := range names {
		if outcome[i] != nil {
			healthy = false
			errs[name] = outcome[i]
			results[name] = "down"
			continue
		}
		results[name] = "up"
	}

	if !healthy {
		for name, err := range errs {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    HealthResponse{Status: "unhealthy", Checks: results},
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeInternal, Message: "One or more dependencies are unavailable", RequestID: getRequestID(c)},
		})
		return
	}
	h.Success(c, HealthResponse{Status: "healthy", Checks: results})
}
