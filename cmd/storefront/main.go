package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/auth"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cache"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cart"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/catalog"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/config"
	h "github.com/DIYSecurityLAB/dseclab-marketplace/internal/http"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/orders"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/session"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	// Redis snapshot cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Platform gateway.
	gateway := shopify.NewClient(cfg.StorefrontEndpoint(), cfg.StorefrontToken, logger)

	snapshotCache := cache.NewRedisCache(redisClient)
	cartService := cart.NewService(gateway, snapshotCache, logger)

	// Sealed sessions.
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionCookieName, cfg.IsProduction())
	if err != nil {
		logger.Fatal("failed to build session manager", zap.Error(err))
	}
	authService := auth.NewService(gateway, sessions, logger)

	// Orders projection (optional).
	var orderRepo orders.Repository
	if cfg.PostgresDSN != "" {
		pg, err := orders.NewPostgresRepository(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.RunMigrations(cfg.MigrationsDir); err != nil {
			logger.Fatal("failed to run orders migrations", zap.Error(err))
		}
		orderRepo = pg
		logger.Info("orders projection enabled")
	}

	// Catalog projection (optional).
	var catalogRepo *catalog.Repository
	if cfg.CatalogDBPath != "" {
		catalogRepo, err = catalog.NewRepository(cfg.CatalogDBPath)
		if err != nil {
			logger.Fatal("failed to open catalog db", zap.Error(err))
		}
		defer catalogRepo.Close()
		if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsDir); err != nil {
			logger.Fatal("failed to run catalog migrations", zap.Error(err))
		}
		logger.Info("catalog projection enabled", zap.String("path", cfg.CatalogDBPath))
	}

	// Webhook relay (optional).
	var relay webhook.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaRelay := webhook.NewRelay(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaRelay.Close()
		relay = kafkaRelay
		logger.Info("webhook relay enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	var orderStore webhook.OrderStore
	if orderRepo != nil {
		orderStore = orderRepo
	}
	var catalogStore webhook.CatalogStore
	if catalogRepo != nil {
		catalogStore = catalogRepo
	}
	processor := webhook.NewProcessor(orderStore, catalogStore, relay, logger)

	router := h.NewRouter(
		h.RouterConfig{
			Sessions:       sessions,
			RequestTimeout: cfg.RequestTimeout,
			Logger:         logger,
		},
		h.NewCartHandler(cartService, cfg.IsProduction(), logger),
		h.NewAuthHandler(authService, orderRepo, logger),
		h.NewProductHandler(gateway, logger),
		h.NewWebhookHandler(cfg.WebhookSecret, processor, cfg.MaxRequestBodySize, logger),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
