package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agimports/storefront-backend/api/controllers"
	"github.com/agimports/storefront-backend/api/middleware"
	authsvc "github.com/agimports/storefront-backend/internal/auth"
	cartsvc "github.com/agimports/storefront-backend/internal/cart"
	"github.com/agimports/storefront-backend/internal/catalog"
	checkoutsvc "github.com/agimports/storefront-backend/internal/checkout"
	favsvc "github.com/agimports/storefront-backend/internal/favorites"
	ordersvc "github.com/agimports/storefront-backend/internal/orders"
	prefsvc "github.com/agimports/storefront-backend/internal/prefs"
	"github.com/agimports/storefront-backend/internal/storeconfig"
	"github.com/agimports/storefront-backend/pkg/auth/session"
	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db"
	"github.com/agimports/storefront-backend/pkg/enums"
	"github.com/agimports/storefront-backend/pkg/logger"
	"github.com/agimports/storefront-backend/pkg/metrics"
	"github.com/agimports/storefront-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisClient     *redis.Client
	SessionChecker  session.AccessSessionChecker
	AuthService     authsvc.Service
	CatalogService  catalog.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	FavoriteService favsvc.Service
	OrderService    ordersvc.Service
	PrefsService    prefsvc.Service
	StoreService    storeconfig.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DBPinger, p.RedisClient))
	})

	if p.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	// Public storefront surface.
	r.Route("/api/v1/store", func(r chi.Router) {
		r.Get("/branding", controllers.StoreBranding(p.StoreService, logg))
	})
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogList(p.CatalogService, logg))
		r.Get("/products/{productID}", controllers.CatalogProductDetail(p.CatalogService, logg))
		r.Get("/filters", controllers.CatalogFilterOptions(p.CatalogService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg),
			middleware.Idempotency(p.RedisClient, logg),
		).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Use(middleware.Idempotency(p.RedisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartSummary(p.CartService, logg))
			r.Get("/badge", controllers.CartBadge(p.CartService, logg))
			r.Post("/items", controllers.CartAdd(p.CartService, logg))
			r.Patch("/items/{lineID}", controllers.CartUpdateLine(p.CartService, logg))
			r.Delete("/items/{lineID}", controllers.CartRemoveLine(p.CartService, logg))
			r.Delete("/", controllers.CartClear(p.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(p.CheckoutService, logg))

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(p.FavoriteService, logg))
			r.Put("/{productID}", controllers.FavoritesAdd(p.FavoriteService, logg))
			r.Delete("/{productID}", controllers.FavoritesRemove(p.FavoriteService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(p.OrderService, logg))
			r.Get("/{orderID}", controllers.OrdersDetail(p.OrderService, logg))
		})

		r.Route("/hidden-products", func(r chi.Router) {
			r.Get("/", controllers.HiddenProductsList(p.PrefsService, logg))
			r.Put("/{productID}", controllers.HideProduct(p.PrefsService, logg))
			r.Delete("/{productID}", controllers.UnhideProduct(p.PrefsService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(p.CatalogService, logg))
				r.Put("/{productID}", controllers.AdminProductUpdate(p.CatalogService, logg))
				r.Delete("/{productID}", controllers.AdminProductDelete(p.CatalogService, logg))
			})
			r.Route("/leagues", func(r chi.Router) {
				r.Post("/", controllers.AdminLeagueCreate(p.CatalogService, logg))
				r.Put("/{leagueID}", controllers.AdminLeagueUpdate(p.CatalogService, logg))
				r.Delete("/{leagueID}", controllers.AdminLeagueDelete(p.CatalogService, logg))
			})
			r.Route("/nationalities", func(r chi.Router) {
				r.Post("/", controllers.AdminNationalityCreate(p.CatalogService, logg))
				r.Put("/{nationalityID}", controllers.AdminNationalityUpdate(p.CatalogService, logg))
				r.Delete("/{nationalityID}", controllers.AdminNationalityDelete(p.CatalogService, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrdersList(p.OrderService, logg))
				r.Get("/{orderID}", controllers.AdminOrdersDetail(p.OrderService, logg))
				r.Patch("/{orderID}/status", controllers.AdminOrdersUpdateStatus(p.OrderService, logg))
			})
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.AdminSettingsGet(p.StoreService, logg))
				r.Put("/", controllers.AdminSettingsUpdate(p.StoreService, logg))
			})
		})
	})

	return r
}
