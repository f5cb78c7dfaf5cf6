package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/KiranKumarPM/servon-1/internal/auth"
	"github.com/KiranKumarPM/servon-1/internal/config"
	"github.com/KiranKumarPM/servon-1/internal/event"
	handler "github.com/KiranKumarPM/servon-1/internal/handler/http"
	"github.com/KiranKumarPM/servon-1/internal/notify"
	"github.com/KiranKumarPM/servon-1/internal/repository/postgres"
	"github.com/KiranKumarPM/servon-1/internal/service"
	"github.com/KiranKumarPM/servon-1/pkg/database"
	"github.com/KiranKumarPM/servon-1/pkg/health"
	pkgkafka "github.com/KiranKumarPM/servon-1/pkg/kafka"
	"github.com/KiranKumarPM/servon-1/pkg/middleware"
	"github.com/KiranKumarPM/servon-1/pkg/tracing"
)

const (
	serviceName    = "servon"
	serviceVersion = "0.1.0"

	// aiLimiterTTL is how long an idle caller's token bucket is kept.
	aiLimiterTTL = 10 * time.Minute
)

// App wires together all dependencies and runs the servon API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		Enabled:        cfg.OTELEnabled,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, database.PoolConfig{
		DSN:             cfg.PostgresDSN(),
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Pool and HTTP metrics live in a private registry. Runtime and Kafka
	// producer metrics stay on the default one; /metrics serves both.
	registry := prometheus.NewRegistry()
	if err := database.RegisterPoolMetrics(registry, pool, serviceName); err != nil {
		pool.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
	}

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Redis carries real-time notices to connected users. Without it notices
	// are dropped and the API keeps working.
	var (
		redisClient *redis.Client
		notifier    notify.Broadcaster
	)
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, notifications disabled",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
			notifier = notify.NewRedisBroadcaster(redisClient)
			healthHandler.Register("redis", func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
		}
	}

	// Kafka carries domain events for downstream consumers.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
			logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
		publisher = producer
		healthHandler.Register("kafka", producer.Ping)
	}

	// Build the dependency graph.
	reviewRepo := postgres.NewReviewRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	requirementRepo := postgres.NewRequirementRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	events := event.NewProducer(publisher, logger)

	services := handler.Services{
		Reviews:      service.NewReviewService(reviewRepo, serviceRepo, events, notifier, logger),
		Catalog:      service.NewCatalogService(serviceRepo, events, logger),
		Requirements: service.NewRequirementService(requirementRepo, events, logger),
		Quotations:   service.NewQuotationService(quotationRepo, requirementRepo, userRepo, events, notifier, logger),
		Advisor:      service.NewAdvisorService(requirementRepo, serviceRepo, userRepo, logger),
		Users:        service.NewUserService(userRepo, logger),
	}

	// HTTP router.
	router := handler.NewRouter(services, handler.Options{
		Validate:  auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).Validate,
		Health:    healthHandler,
		Metrics:   middleware.NewHTTPMetrics(registry, serviceName),
		Gatherer:  prometheus.Gatherers{prometheus.DefaultGatherer, registry},
		AILimiter: middleware.NewRateLimiter(cfg.AIRateLimitRPS, cfg.AIRateLimitBurst, aiLimiterTTL, logger),
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Flush buffered events.
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 4. Close Redis.
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 5. Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pinger is satisfied by *pkgkafka.Producer.
type pinger interface {
	Ping(ctx context.Context) error
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s/4s with ±25% jitter).
func pingKafkaWithRetry(ctx context.Context, producer pinger, logger *slog.Logger) error {
	return pingWithRetry(ctx, producer, logger, time.Second)
}

func pingWithRetry(ctx context.Context, p pinger, logger *slog.Logger, baseWait time.Duration) error {
	const attempts = 3

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = p.Ping(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		base := baseWait << attempt
		jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
		wait := base + jitter
		logger.Warn("kafka producer ping failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", wait),
			slog.String("error", lastErr.Error()),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("kafka producer ping failed after %d attempts: %w", attempts, lastErr)
}
