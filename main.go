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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/bistro-boss-api/auth"
	"github.com/junaidrashid-git/bistro-boss-api/config"
	paymentControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/payment"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/payments"
	"github.com/junaidrashid-git/bistro-boss-api/routes"
	"github.com/junaidrashid-git/bistro-boss-api/store"
	"github.com/junaidrashid-git/bistro-boss-api/store/gormstore"
	"github.com/junaidrashid-git/bistro-boss-api/store/memory"
	"github.com/junaidrashid-git/bistro-boss-api/store/mongo"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init store
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("store connected", zap.String("driver", cfg.StoreDriver))

	feed := paymentControllers.NewFeed(logger)
	metrics := middleware.NewMetrics()

	// Gin setup
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), metrics.Instrument())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		Store:    db,
		Gateway:  payments.NewStripe(cfg.StripeSecretKey),
		Issuer:   auth.NewIssuer(cfg.AccessTokenSecret, cfg.TokenTTL),
		Feed:     feed,
		Metrics:  metrics,
		Currency: cfg.Currency,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Bistro Boss server is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown does not track hijacked websocket connections; the feed closes those.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	feed.Close()

	return db.Close(shutdownCtx)
}

// openStore connects the backend named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongo.Connect(connectCtx, cfg.MongoConnectionURI(), cfg.DBName)
	case config.DriverPostgres:
		return gormstore.Open(cfg.DatabaseURL)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
