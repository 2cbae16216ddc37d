package telemetry

import (
	"context"
	"errors"

	"github.com/invoicedash/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Providers groups the trace, metric and log providers built from configuration.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup builds all providers. Each signal is gated by its own switch under the
// master Enabled flag; a disabled signal keeps the global no-op implementation.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		return nil, err
	}

	mp, err := NewMeterProvider(ctx, MetricsConfig{
		Enabled:           cfg.Enabled && cfg.MetricsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ExportInterval:    cfg.MetricsInterval,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	lp, err := NewLoggerProvider(ctx, LogsConfig{
		Enabled:           cfg.Enabled && cfg.LogsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Insecure,
	}, logger)
	if err != nil {
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	prof, err := NewProfiler(Profiling(cfg), logger)
	if err != nil {
		_ = lp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	if prof.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	return &Providers{Tracer: tp, Meter: mp, Logs: lp, Profiler: prof}, nil
}

// Profiling returns the continuous profiling settings. Profiling has its own
// switch and runs without the OTLP collector.
func Profiling(cfg config.TelemetryConfig) ProfilerConfig {
	return ProfilerConfig{
		Enabled:           cfg.ProfilingEnabled,
		ServerAddress:     cfg.ProfilingServerAddress,
		ApplicationName:   cfg.ServiceName,
		BasicAuthUser:     cfg.ProfilingBasicAuthUser,
		BasicAuthPassword: cfg.ProfilingBasicAuthPassword,
	}
}

// LogCore returns the zap core bridging entries to OTLP logs.
func (p *Providers) LogCore(level zapcore.Level) zapcore.Core {
	return p.Logs.ZapCore(level)
}

// DBTracing returns the database tracing settings.
func DBTracing(cfg config.TelemetryConfig) DBTracingConfig {
	dbCfg := DefaultDBTracingConfig()
	dbCfg.Enabled = cfg.Enabled && cfg.DBTraceEnabled
	dbCfg.LogFullSQL = cfg.DBLogFullSQL
	if cfg.DBSlowQueryThresh > 0 {
		dbCfg.SlowQueryThresh = cfg.DBSlowQueryThresh
	}
	return dbCfg
}

// Shutdown stops every provider. Logs go last so the others' shutdown messages are exported.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Profiler.Stop(),
		p.Meter.Shutdown(ctx),
		p.Tracer.Shutdown(ctx),
		p.Logs.Shutdown(ctx),
	)
}
