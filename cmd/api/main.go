package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // BOOKING_TIMEZONE must resolve in minimal images

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wanderlust-cottage/booking-api/config"
	"github.com/wanderlust-cottage/booking-api/internal/handlers"
	"github.com/wanderlust-cottage/booking-api/internal/middleware"
	"github.com/wanderlust-cottage/booking-api/internal/notify"
	"github.com/wanderlust-cottage/booking-api/internal/repository"
	"github.com/wanderlust-cottage/booking-api/internal/server"
	"github.com/wanderlust-cottage/booking-api/internal/services"
	"github.com/wanderlust-cottage/booking-api/pkg/circuitbreaker"
	"github.com/wanderlust-cottage/booking-api/pkg/db"
	"github.com/wanderlust-cottage/booking-api/pkg/events"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/mailer"
	"github.com/wanderlust-cottage/booking-api/pkg/metrics"
	"github.com/wanderlust-cottage/booking-api/pkg/profiling"
	"github.com/wanderlust-cottage/booking-api/pkg/ratelimit"
	"github.com/wanderlust-cottage/booking-api/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting booking API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	go metrics.RecordInfrastructureMetrics(rootCtx.Done())

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load booking time zone", zap.Error(err))
	}

	readiness := map[string]handlers.ReadinessCheck{}
	deps := services.InquiryDeps{
		Subject:  cfg.NATS.Subject,
		Location: loc,
	}

	if cfg.Database.URL != "" {
		pool, poolErr := db.NewPool(rootCtx, db.PoolConfig{
			URL:        cfg.Database.URL,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
			CACertPath: cfg.Database.CACertPath,
		})
		if poolErr != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(poolErr))
		}
		defer db.Close(pool)

		repo := repository.NewInquiryRepository(pool)
		deps.Store = repo
		readiness["database"] = repo.Ping
		logger.Info("Inquiry store enabled", zap.String("database", db.MaskURL(cfg.Database.URL)))
	}

	if cfg.NATS.URL != "" {
		publisher, natsErr := events.NewNATSPublisher(cfg.NATS.URL, cfg.Observability.ServiceName)
		if natsErr != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(natsErr))
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				logger.Error("Failed to drain NATS connection", zap.Error(closeErr))
			}
		}()
		deps.Publisher = publisher
		logger.Info("Inquiry events enabled", zap.String("subject", cfg.NATS.Subject))
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Mailer.Enabled {
		var m mailer.Mailer = mailer.LogMailer{}
		if cfg.Mailer.APIKey != "" {
			m = mailer.NewGuarded(
				mailer.NewMailerSend(cfg.Mailer.APIKey, cfg.Mailer.FromName, cfg.Mailer.FromEmail),
				circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("mailersend")),
			)
		} else {
			logger.Warn("MAILERSEND_API_KEY not set, notification emails are only logged")
		}
		notifier = notify.NewEmailNotifier(m, notify.Options{
			OwnerEmail:   cfg.Booking.OwnerEmail,
			PropertyName: cfg.Booking.PropertyName,
		})
	}
	deps.Notifier = notifier

	window := ratelimit.Window{Limit: cfg.RateLimit.Requests, Period: cfg.RateLimitWindow()}
	var limiter ratelimit.Limiter
	switch cfg.RateLimit.Backend {
	case ratelimit.BackendRedis:
		client, redisErr := ratelimit.NewRedisClient(cfg.Redis.URL)
		if redisErr != nil {
			logger.Fatal("Failed to configure Redis", zap.Error(redisErr))
		}
		defer client.Close()
		if pingErr := client.Ping(rootCtx).Err(); pingErr != nil {
			logger.Warn("Redis not reachable at startup, rate limiting fails open until it is", zap.Error(pingErr))
		}
		limiter = ratelimit.NewRedisLimiter(client, window, cfg.Redis.KeyPrefix)
		readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	default:
		limiter = ratelimit.NewMemoryLimiter(window, nil)
	}
	logger.Info("Inquiry rate limit configured",
		zap.String("backend", cfg.RateLimit.Backend),
		zap.Int("requests", window.Limit),
		zap.Duration("window", window.Period))

	gin.SetMode(cfg.Server.GinMode)
	router := server.NewRouter(server.Deps{
		Config:          cfg,
		InquiryService:  services.NewInquiryService(deps),
		InquiryLimiter:  limiter,
		OpsLimiter:      middleware.NewTokenBucketLimiter(rootCtx, 20, 40),
		ReadinessChecks: readiness,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := notifier.Close(ctx); err != nil {
		logger.Warn("Pending notifications dropped", zap.Error(err))
	}

	logger.Info("Server exited")
}
