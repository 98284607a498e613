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

	"bumpbox-be/internal/auth"
	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/config"
	"bumpbox-be/internal/db"
	"bumpbox-be/internal/handler"
	"bumpbox-be/internal/listing"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/metrics"
	"bumpbox-be/internal/middleware"
	"bumpbox-be/internal/order"
	"bumpbox-be/internal/payment"
	"bumpbox-be/internal/session"
	"bumpbox-be/internal/telemetry"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
	newRedisClient  = func(cfg *config.Config) redis.UniversalClient {
		return redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

// app is the wired service graph.
type app struct {
	handler *handler.Handler
	tokens  *auth.TokenManager
	carts   *cart.Store
	memory  *session.MemoryStorage
	metrics *metrics.Registry
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.L().Warn("cleanup failed", zap.Error(err))
		}
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(telemetry.Config{
		ServiceName: "bumpbox",
		Exporter:    cfg.OTELTraces,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.L().Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(0, 0)
	defer limiter.Close()

	go sweepLoop(ctx, a, cfg.SessionTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, a, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.L().Info("server starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
		zap.String("catalog", cfg.CatalogSource),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- startServerFunc(srv) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{metrics: metrics.NewRegistry()}

	catalogRepo, err := newCatalogRepository(cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	storage, err := newSessionStorage(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.tokens = tokens

	catalogSvc := catalog.NewService(catalogRepo)
	a.carts = cart.NewStore()
	carts := cart.NewService(a.carts, catalogSvc)
	payments := payment.NewService(storage)

	a.handler = handler.New(handler.Deps{
		Catalog:  catalogSvc,
		Carts:    carts,
		Orders:   order.NewService(order.NewRepository(storage), carts, catalogSvc, payments),
		Payments: payments,
		Listings: listing.NewService(listing.NewRepository(storage), catalogSvc),
		Metrics:  a.metrics,
	})
	return a, nil
}

func newCatalogRepository(cfg *config.Config, a *app) (catalog.Repository, error) {
	if cfg.CatalogSource == config.CatalogSourcePostgres {
		database, err := initDBFunc(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		return catalog.NewPostgresRepository(database), nil
	}

	fixtures, err := catalog.DefaultFixtures()
	if err != nil {
		return nil, err
	}
	return catalog.NewMemoryRepository(fixtures), nil
}

func newSessionStorage(ctx context.Context, cfg *config.Config, a *app) (session.Storage, error) {
	if cfg.RedisAddr == "" {
		a.memory = session.NewMemoryStorage(cfg.SessionTTL)
		return a.memory, nil
	}

	client := newRedisClient(cfg)
	a.closers = append(a.closers, client.Close)

	storage := session.NewRedisStorage(client, session.RedisStorageConfig{TTL: cfg.SessionTTL})
	if err := storage.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return storage, nil
}

// setupRouter mounts the health and metrics endpoints and the session-scoped API behind
// the middleware chain.
func setupRouter(cfg *config.Config, a *app, limiter *middleware.RateLimiter) http.Handler {
	api := http.NewServeMux()
	a.handler.Register(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /metrics", a.handler.Metrics)
	mux.Handle("/", middleware.Session(a.tokens)(limiter.Middleware(api)))

	var h http.Handler = mux
	h = logger.LoggingMiddleware(h)
	h = telemetry.Middleware("bumpbox", "/health")(h)
	h = logger.RequestIDMiddleware(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	return h
}

// sweepLoop drops idle carts and expired in-memory records until ctx ends.
func sweepLoop(ctx context.Context, a *app, maxIdle time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(a, maxIdle)
		}
	}
}

func sweep(a *app, maxIdle time.Duration) {
	timer := metrics.StartTimer()

	carts := a.carts.Sweep(maxIdle)
	records := 0
	if a.memory != nil {
		records = a.memory.Sweep()
	}
	a.metrics.CartsSwept.Add(uint64(carts))
	active := a.carts.Len()
	a.metrics.ActiveCarts.Set(int64(active))

	logger.L().Debug("session sweep",
		zap.Int("carts", carts),
		zap.Int("records", records),
		zap.Int("active", active),
		zap.Duration("took", timer.Duration()),
	)
}
