// Package api assembles the HTTP surface: middleware chain, route tree, and
// the health and metrics endpoints.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amniuelmohamed/freshconcept/internal/api/handler"
	"github.com/amniuelmohamed/freshconcept/internal/api/middleware"
	"github.com/amniuelmohamed/freshconcept/internal/auth/token"
	"github.com/amniuelmohamed/freshconcept/internal/config"
	"github.com/amniuelmohamed/freshconcept/internal/security"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// Services bundles everything the route tree depends on.
type Services struct {
	Auth          service.AuthService
	Identity      service.IdentityService
	Catalog       service.CatalogService
	Cart          service.CartService
	Orders        service.OrderService
	AdminCatalog  service.AdminCatalogService
	AdminOrders   service.AdminOrderService
	AdminAccounts service.AdminAccountService
	Settings      service.SettingsService
	System        service.SystemService

	Tokens      *token.Manager
	RateLimiter *security.RateLimiter
	I18n        *i18n.Manager
}

// NewRouter wires the full route tree.
func NewRouter(logger *slog.Logger, services Services, metricsCfg config.MetricsConfig) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mustServices(services)

	r := chi.NewRouter()

	var metrics *middleware.Metrics
	mCfg := middleware.DefaultMetricsConfig()
	if metricsCfg.Namespace != "" {
		mCfg.Namespace = metricsCfg.Namespace
	}
	if len(metricsCfg.Buckets) > 0 {
		mCfg.Buckets = metricsCfg.Buckets
	}
	if metricsCfg.Enabled {
		metrics = middleware.NewMetrics(mCfg)
	}

	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)
	if metrics != nil {
		r.Use(metrics.Middleware(mCfg))
	}
	r.Use(
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.BodyLimit(middleware.BodyLimitConfig{MaxBytes: 1 << 20}),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   services.RateLimiter,
			Limit:     300,
			Window:    time.Minute,
			SkipPaths: []string{"/health", "/healthz", "/metrics"},
		}),
		middleware.StructuredLogger(middleware.LoggingConfig{
			Logger:        logger,
			SlowThreshold: 500 * time.Millisecond,
			SkipPaths:     []string{"/health", "/healthz", "/metrics"},
		}),
		chiMiddleware.Recoverer,
		chiMiddleware.Compress(5),
		middleware.I18n(services.I18n),
	)

	healthz := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
	r.Get("/healthz", healthz)
	r.Get("/health", healthz)

	if metricsCfg.Enabled {
		if metricsCfg.Token != "" {
			r.With(middleware.MetricsGuard(metricsCfg.Token)).Handle("/metrics", promhttp.Handler())
		} else {
			r.Handle("/metrics", promhttp.Handler())
		}
	}

	r.Route("/api/v1", func(v1 chi.Router) {
		registerPassportRoutes(v1, services)
		registerClientRoutes(v1, services)
		registerAdminRoutes(v1, services)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		logger.Warn("unmapped route hit", "method", req.Method, "path", req.URL.Path)
		http.NotFound(w, req)
	})

	return r
}

func mustServices(services Services) {
	if services.Auth == nil {
		panic("router requires AuthService")
	}
	if services.Identity == nil {
		panic("router requires IdentityService")
	}
	if services.Catalog == nil {
		panic("router requires CatalogService")
	}
	if services.Cart == nil {
		panic("router requires CartService")
	}
	if services.Orders == nil {
		panic("router requires OrderService")
	}
	if services.AdminCatalog == nil {
		panic("router requires AdminCatalogService")
	}
	if services.AdminOrders == nil {
		panic("router requires AdminOrderService")
	}
	if services.AdminAccounts == nil {
		panic("router requires AdminAccountService")
	}
	if services.Settings == nil {
		panic("router requires SettingsService")
	}
	if services.System == nil {
		panic("router requires SystemService")
	}
	if services.Tokens == nil {
		panic("router requires token manager")
	}
	if services.I18n == nil {
		panic("router requires i18n manager")
	}
}

func registerPassportRoutes(v1 chi.Router, services Services) {
	passport := handler.NewPassportHandler(services.Auth, services.I18n)
	v1.Route("/passport/auth", func(auth chi.Router) {
		auth.Post("/login", passport.Login)
		auth.Post("/refresh", passport.Refresh)
		auth.Post("/logout", passport.Logout)
	})
}

func registerClientRoutes(v1 chi.Router, services Services) {
	catalog := handler.NewCatalogHandler(services.Catalog, services.I18n)
	cart := handler.NewCartHandler(services.Cart, services.I18n)
	orders := handler.NewOrderHandler(services.Orders, services.I18n)
	profile := handler.NewProfileHandler()

	v1.Route("/client", func(client chi.Router) {
		client.Use(middleware.ClientGuard(services.Tokens, services.Identity))

		client.Get("/profile", profile.Me)

		client.Get("/catalog/categories", catalog.Categories)
		client.Get("/catalog/products", catalog.Products)
		client.Get("/catalog/products/{id:[0-9]+}", catalog.Product)

		client.Get("/cart", cart.Get)
		client.Put("/cart", cart.Put)
		client.Delete("/cart", cart.Clear)
		client.Delete("/cart/items/{productID:[0-9]+}", cart.Remove)

		client.Get("/checkout", orders.NextDelivery)
		client.Post("/orders", orders.Checkout)
		client.Get("/orders", orders.List)
		client.Get("/orders/{id:[0-9]+}", orders.Get)
		client.Post("/orders/{id:[0-9]+}/cancel", orders.Cancel)
	})
}

func registerAdminRoutes(v1 chi.Router, services Services) {
	adminCatalog := handler.NewAdminCatalogHandler(services.AdminCatalog, services.I18n)
	adminOrders := handler.NewAdminOrderHandler(services.AdminOrders, services.I18n)
	adminAccounts := handler.NewAdminAccountHandler(services.AdminAccounts, services.I18n)
	adminSettings := handler.NewAdminSettingsHandler(services.Settings, services.I18n)
	adminSystem := handler.NewAdminSystemHandler(services.System, services.I18n)

	guard := func(permission string) func(http.Handler) http.Handler {
		return middleware.EmployeeGuard(services.Tokens, services.Identity, permission)
	}

	v1.Route("/admin", func(admin chi.Router) {
		admin.Group(func(catalog chi.Router) {
			catalog.Use(guard(service.PermCatalogManage))
			catalog.Get("/categories", adminCatalog.ListCategories)
			catalog.Post("/categories", adminCatalog.CreateCategory)
			catalog.Post("/categories/sort", adminCatalog.SortCategories)
			catalog.Put("/categories/{id:[0-9]+}", adminCatalog.UpdateCategory)
			catalog.Delete("/categories/{id:[0-9]+}", adminCatalog.DeleteCategory)

			catalog.Get("/products", adminCatalog.ListProducts)
			catalog.Post("/products", adminCatalog.CreateProduct)
			catalog.Get("/products/{id:[0-9]+}", adminCatalog.GetProduct)
			catalog.Put("/products/{id:[0-9]+}", adminCatalog.UpdateProduct)
			catalog.Delete("/products/{id:[0-9]+}", adminCatalog.DeleteProduct)
		})

		admin.Group(func(orders chi.Router) {
			orders.Use(guard(service.PermOrdersManage))
			orders.Get("/orders", adminOrders.List)
			orders.Get("/orders/counts", adminOrders.StatusCounts)
			orders.Get("/orders/{id:[0-9]+}", adminOrders.Get)
			orders.Post("/orders/{id:[0-9]+}/status", adminOrders.UpdateStatus)
		})

		admin.Group(func(accounts chi.Router) {
			accounts.Use(guard(service.PermAccountsManage))
			accounts.Get("/accounts", adminAccounts.ListAccounts)
			accounts.Post("/accounts", adminAccounts.CreateAccount)
			accounts.Get("/accounts/{id:[0-9]+}", adminAccounts.GetAccount)
			accounts.Put("/accounts/{id:[0-9]+}", adminAccounts.UpdateAccount)
			accounts.Delete("/accounts/{id:[0-9]+}", adminAccounts.DeleteAccount)

			accounts.Get("/roles", adminAccounts.ListRoles)
			accounts.Post("/roles", adminAccounts.CreateRole)
			accounts.Put("/roles/{id:[0-9]+}", adminAccounts.UpdateRole)
			accounts.Delete("/roles/{id:[0-9]+}", adminAccounts.DeleteRole)
		})

		admin.Group(func(settings chi.Router) {
			settings.Use(guard(service.PermSettingsManage))
			settings.Get("/settings", adminSettings.List)
			settings.Put("/settings", adminSettings.Update)
			settings.Get("/settings/ordering", adminSettings.CutoffPolicy)
			settings.Put("/settings/ordering", adminSettings.UpdateCutoffPolicy)
		})

		admin.Group(func(system chi.Router) {
			system.Use(guard(service.PermSystemView))
			system.Get("/system/status", adminSystem.Status)
		})
	})
}
