package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agimports/storefront-backend/api/routes"
	authsvc "github.com/agimports/storefront-backend/internal/auth"
	cartsvc "github.com/agimports/storefront-backend/internal/cart"
	"github.com/agimports/storefront-backend/internal/catalog"
	checkoutsvc "github.com/agimports/storefront-backend/internal/checkout"
	favsvc "github.com/agimports/storefront-backend/internal/favorites"
	ordersvc "github.com/agimports/storefront-backend/internal/orders"
	prefsvc "github.com/agimports/storefront-backend/internal/prefs"
	"github.com/agimports/storefront-backend/internal/storeconfig"
	"github.com/agimports/storefront-backend/internal/users"
	"github.com/agimports/storefront-backend/pkg/auth/session"
	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db"
	"github.com/agimports/storefront-backend/pkg/logger"
	"github.com/agimports/storefront-backend/pkg/metrics"
	"github.com/agimports/storefront-backend/pkg/migrate"
	"github.com/agimports/storefront-backend/pkg/observe"
	"github.com/agimports/storefront-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
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

	hub := observe.NewHub()
	defer hub.Close()

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	prefsService, err := prefsvc.NewService(prefsvc.ServiceParams{
		Store: redisClient,
		Hub:   hub,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create prefs service", err)
		os.Exit(1)
	}

	productRepo := catalog.NewRepository(dbClient.DB())
	taxonomyRepo := catalog.NewTaxonomyRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		ProductRepo:  productRepo,
		TaxonomyRepo: taxonomyRepo,
		HiddenReader: prefsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		SizeRepo:    taxonomyRepo,
		Tx:          dbClient,
		Hub:         hub,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	settingsRepo := storeconfig.NewRepository(dbClient.DB())
	storeService, err := storeconfig.NewService(storeconfig.ServiceParams{
		SettingsRepo: settingsRepo,
		Checkout:     cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	orderRepo := ordersvc.NewRepository(dbClient.DB())
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Settings: settingsRepo,
		CartRepo: cartRepo,
		Orders:   orderRepo,
		Tx:       dbClient,
		Hub:      hub,
		Config:   cfg.Checkout,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		OrderRepo: orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	favoriteService, err := favsvc.NewService(favsvc.ServiceParams{
		FavoriteRepo: favsvc.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
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
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			SessionChecker:  sessionManager,
			AuthService:     authService,
			CatalogService:  catalogService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			FavoriteService: favoriteService,
			OrderService:    orderService,
			PrefsService:    prefsService,
			StoreService:    storeService,
			HTTPMetrics:     httpMetrics,
			MetricsRegistry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
