package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	providers, err := Setup(context.Background(), config.TelemetryConfig{
		Enabled:        false,
		MetricsEnabled: true,
		LogsEnabled:    true,
		ServiceName:    "invoicedash",
	}, "test", zap.New(core))
	require.NoError(t, err)

	assert.False(t, providers.Tracer.IsEnabled())
	assert.False(t, providers.Meter.IsEnabled())
	assert.False(t, providers.Logs.IsEnabled())
	assert.False(t, providers.Profiler.IsEnabled())
	assert.False(t, providers.Tracer.SpanProfilesEnabled())
	assert.Equal(t, 1, logs.FilterMessage("Tracing disabled, using no-op tracer provider").Len())
	assert.Equal(t, 1, logs.FilterMessage("Continuous profiling disabled").Len())

	assert.NotNil(t, providers.Tracer.Tracer("x"))
	assert.NotNil(t, providers.Meter.Meter("x"))
	assert.NoError(t, providers.Tracer.ForceFlush(context.Background()))
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestSetup_ProfilingNeedsServerAddress(t *testing.T) {
	_, err := Setup(context.Background(), config.TelemetryConfig{
		ProfilingEnabled: true,
		ServiceName:      "invoicedash",
	}, "test", zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address is required")
}

func TestProfiling(t *testing.T) {
	cfg := Profiling(config.TelemetryConfig{
		ProfilingEnabled:       true,
		ProfilingServerAddress: "http://pyroscope:4040",
		ServiceName:            "invoicedash",
	})

	assert.Equal(t, ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://pyroscope:4040",
		ApplicationName: "invoicedash",
	}, cfg)
}

func TestProviders_LogCoreIsNopWhenDisabled(t *testing.T) {
	providers, err := Setup(context.Background(), config.TelemetryConfig{}, "", zap.NewNop())
	require.NoError(t, err)

	core := providers.LogCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("request_id", "r-1"))

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "r-1", logs.All()[0].ContextMap()["request_id"])
	assert.False(t, core.Enabled(zapcore.InfoLevel))
}

func TestDBTracing(t *testing.T) {
	cfg := DBTracing(config.TelemetryConfig{
		Enabled:           true,
		DBTraceEnabled:    true,
		DBLogFullSQL:      true,
		DBSlowQueryThresh: 50 * time.Millisecond,
	})
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogFullSQL)
	assert.Equal(t, 50*time.Millisecond, cfg.SlowQueryThresh)

	off := DBTracing(config.TelemetryConfig{DBTraceEnabled: true})
	assert.False(t, off.Enabled, "master switch off disables database tracing")
	assert.Equal(t, 200*time.Millisecond, off.SlowQueryThresh)
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}
