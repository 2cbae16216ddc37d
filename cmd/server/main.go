package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/application/dashboard"
	"github.com/invoicedash/backend/internal/application/identity"
	"github.com/invoicedash/backend/internal/application/mutation"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/infrastructure/auth"
	"github.com/invoicedash/backend/internal/infrastructure/cache"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/invoicedash/backend/internal/infrastructure/event"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/persistence"
	"github.com/invoicedash/backend/internal/infrastructure/storage"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"github.com/invoicedash/backend/internal/interfaces/http/handler"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"github.com/invoicedash/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	startCtx := context.Background()

	// Telemetry first so the final logger can tee into the OTLP log bridge
	providers, err := telemetry.Setup(startCtx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log, err := logger.New(logCfg, providers.LogCore(level))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice dashboard",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracing(cfg.Telemetry), log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	dbMetrics, err := telemetry.NewDBMetrics(providers.Meter.Meter("db"), telemetry.DBMetricsConfig{
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to create database metrics", zap.Error(err))
	}
	if providers.Meter.IsEnabled() {
		if err := dbMetrics.Register(db.DB); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			dbMetrics.StartPoolStatsCollection(startCtx, sqlDB)
		}
	}

	// Listing cache and submission keys
	backends, err := cache.NewFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Build(startCtx)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// Avatar storage is optional; without it new customers get the default image
	var avatars mutation.AttachFunc[*partner.Customer]
	if cfg.Storage.Enabled {
		objects, err := storage.NewS3ObjectStorage(startCtx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objects.EnsureBucket(startCtx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
		avatars = mutation.CustomerAvatar(objects, log)
		log.Info("Object storage ready", zap.String("bucket", objects.Bucket()))
	}

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	revenueRepo := persistence.NewGormRevenueRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Committed mutations fan out to the dependent-page invalidation
	bus := event.NewInMemoryEventBus(log)
	invalidation := dashboard.NewInvalidationHandler(backends.Listing, log)
	bus.Subscribe(invalidation, invalidation.EventTypes()...)
	if err := bus.Start(startCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Write side
	pipelineOpts := []mutation.Option{
		mutation.WithEvents(bus),
		mutation.WithTracer(providers.Tracer.Tracer("mutation")),
		mutation.WithMeter(providers.Meter.Meter("mutation")),
	}
	if cfg.Cache.IdempotencyEnabled {
		pipelineOpts = append(pipelineOpts, mutation.WithIdempotency(backends.Idempotency, cfg.Cache.IdempotencyTTL))
	}
	pipeline := mutation.NewPipeline(backends.Listing, log, pipelineOpts...)

	schemas := mutation.NewSchemas(mutation.NewValidator(), time.Now)
	schemas.DefaultImageURL = cfg.Storage.DefaultAvatarURL

	mutators := []handler.Mutator{
		mutation.NewMutator(pipeline, mutation.Resource[*billing.Invoice]{
			Kind:        mutation.KindInvoice,
			ListingPath: mutation.InvoicesPath,
			Decode:      schemas.Invoice,
			Store:       invoiceRepo,
		}),
		mutation.NewMutator(pipeline, mutation.Resource[*partner.Customer]{
			Kind:        mutation.KindCustomer,
			ListingPath: mutation.CustomersPath,
			Decode:      schemas.Customer,
			Store:       customerRepo,
			Attach:      avatars,
		}),
		mutation.NewMutator(pipeline, mutation.Resource[*finance.Expense]{
			Kind:        mutation.KindExpense,
			ListingPath: mutation.ExpensesPath,
			Decode:      schemas.Expense,
			Store:       expenseRepo,
		}),
		mutation.NewMutator(pipeline, mutation.Resource[*partner.Contact]{
			Kind:        mutation.KindContact,
			ListingPath: mutation.ContactsPath,
			Decode:      schemas.Contact,
			Store:       contactRepo,
		}),
	}
	mutationHandlers := make([]*handler.MutationHandler, 0, len(mutators))
	for _, m := range mutators {
		mutationHandlers = append(mutationHandlers, handler.NewMutationHandler(m))
	}

	// Read side
	queries := dashboard.NewQueryService(dashboard.Repositories{
		Invoices:  invoiceRepo,
		Revenue:   revenueRepo,
		Customers: customerRepo,
		Contacts:  contactRepo,
		Expenses:  expenseRepo,
	}, backends.Listing, log)

	// Sessions
	var revocations auth.SessionRevocations
	if backends.Client != nil {
		revocations = auth.NewRedisSessionRevocations(backends.Client)
	} else {
		revocations = auth.NewInMemorySessionRevocations()
	}
	authService := identity.NewAuthService(userRepo, auth.NewJWTService(cfg.JWT), revocations, log)

	limiters := newLimiters(cfg, backends)
	defer limiters.stop()

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if backends.Client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return backends.Client.Ping(ctx).Err()
		}
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Profiling(middleware.ProfilingConfig{
		Enabled:   providers.Profiler.IsEnabled(),
		SkipPaths: []string{"/health"},
	}))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: providers.Meter,
		Enabled:       providers.Meter.IsEnabled(),
		Logger:        log,
	}))
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if limiters.requests != nil {
		engine.Use(middleware.RateLimit(limiters.requests))
	}

	guards := router.Guards{
		Session: middleware.SessionAuth(middleware.SessionAuthConfig{
			Validator:  authService,
			CookieName: cfg.Cookie.Name,
			Logger:     log,
		}),
	}
	if limiters.logins != nil {
		guards.LoginRate = middleware.AuthRateLimit(limiters.logins)
	}

	router.Register(engine, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie),
		Dashboard: handler.NewDashboardHandler(queries),
		Mutations: mutationHandlers,
		System:    handler.NewSystemHandler(cfg.App.Name, version, checks, log),
	}, guards)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	dbMetrics.Stop()
	if err := backends.Close(); err != nil {
		log.Error("Error closing cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// rateLimiters holds the request limiters. Redis-backed limiters are shared by
// every instance; the in-memory ones need stopping.
type rateLimiters struct {
	requests middleware.Limiter
	logins   middleware.Limiter
	local    []*middleware.RateLimiter
}

func newLimiters(cfg *config.Config, backends *cache.Backends) *rateLimiters {
	l := &rateLimiters{}
	build := func(limit int, window time.Duration, prefix string) middleware.Limiter {
		if backends.Client != nil {
			return cache.NewRedisRateLimiter(backends.Client, limit, window, prefix)
		}
		rl := middleware.NewRateLimiter(limit, window)
		l.local = append(l.local, rl)
		return rl
	}
	if cfg.HTTP.RateLimitEnabled {
		l.requests = build(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, "ratelimit:requests:")
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		l.logins = build(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow, "ratelimit:login:")
	}
	return l
}

func (l *rateLimiters) stop() {
	for _, rl := range l.local {
		rl.Stop()
	}
}
