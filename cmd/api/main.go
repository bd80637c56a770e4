package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/urbanswap/urbanswap-backend/api/routes"
	"github.com/urbanswap/urbanswap-backend/internal/auth"
	"github.com/urbanswap/urbanswap-backend/internal/listings"
	"github.com/urbanswap/urbanswap-backend/internal/swaps"
	"github.com/urbanswap/urbanswap-backend/internal/users"
	"github.com/urbanswap/urbanswap-backend/pkg/auth/session"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
	"github.com/urbanswap/urbanswap-backend/pkg/db"
	"github.com/urbanswap/urbanswap-backend/pkg/logger"
	"github.com/urbanswap/urbanswap-backend/pkg/metrics"
	"github.com/urbanswap/urbanswap-backend/pkg/migrate"
	"github.com/urbanswap/urbanswap-backend/pkg/redis"
	"github.com/urbanswap/urbanswap-backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	imageStore, err := storage.NewDiskStore(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:       dbClient,
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listings.ServiceParams{
		TxRunner:    dbClient,
		Repo:        listings.NewRepository(dbClient.DB()),
		Cache:       redisClient,
		Images:      imageStore,
		Points:      cfg.Points,
		FeaturedTTL: cfg.Uploads.FeaturedTTL,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	swapsService, err := swaps.NewService(swaps.ServiceParams{
		TxRunner: dbClient,
		Repo:     swaps.NewRepository(dbClient.DB()),
		Listings: listings.NewRepository(dbClient.DB()),
		Points:   cfg.Points,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create swaps service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			RedisClient:     redisClient,
			SessionManager:  sessionManager,
			AuthService:     authService,
			ListingsService: listingsService,
			SwapsService:    swapsService,
			ImageStore:      imageStore,
			HTTPMetrics:     httpMetrics,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
