package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/packfinderz-storefront/api/controllers"
	"github.com/angelmondragon/packfinderz-storefront/api/middleware"
	"github.com/angelmondragon/packfinderz-storefront/internal/mockbackend"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

// NewRouter serves the storefront REST surface under /api from store.
// reg may be nil, in which case /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store *mockbackend.Store,
	reg *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/health/live", controllers.HealthLive(cfg.App.Env))
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	tokens := controllers.TokenMinter{Secret: cfg.Mock.JWTSecret, TTL: cfg.Mock.TokenTTL}
	var serverMetrics *metrics.HTTPServerMetrics
	if reg != nil {
		serverMetrics = metrics.NewHTTPServerMetrics(reg)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Metrics(serverMetrics))
		r.Use(middleware.OptionalAuth(cfg.Mock.JWTSecret, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(store))
			r.Get("/category/{id}", controllers.ProductsByCategory(store))
			r.Get("/{id}", controllers.GetProduct(store, logg))
		})
		r.Get("/categories", controllers.ListCategories(store))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(store, logg))
			r.Post("/", controllers.AddToCart(store, logg))
			r.Post("/remove", controllers.RemoveFromCart(store, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/create-order", controllers.CreateOrder(store, logg))
			r.Get("/order/{id}", controllers.GetOrder(store, logg))
			r.With(middleware.RequireUser(logg)).Get("/my-orders", controllers.MyOrders(store))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/validate-discount", controllers.ValidateDiscount(store, logg))
			r.Post("/login-user", controllers.Login(store, tokens, logg))
			r.Post("/register-user", controllers.Register(store, logg))
			r.Post("/verify-otp", controllers.VerifyOTP(store, tokens, logg))
		})
	})

	return r
}
