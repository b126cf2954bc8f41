package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gomartvn/storefront-backend/api/controllers"
	ordercontrollers "github.com/gomartvn/storefront-backend/api/controllers/orders"
	"github.com/gomartvn/storefront-backend/api/middleware"
	"github.com/gomartvn/storefront-backend/internal/cart"
	"github.com/gomartvn/storefront-backend/internal/catalog"
	checkoutsvc "github.com/gomartvn/storefront-backend/internal/checkout"
	"github.com/gomartvn/storefront-backend/internal/orders"
	"github.com/gomartvn/storefront-backend/pkg/config"
	"github.com/gomartvn/storefront-backend/pkg/db"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	"github.com/gomartvn/storefront-backend/pkg/geocode"
	"github.com/gomartvn/storefront-backend/pkg/logger"
	"github.com/gomartvn/storefront-backend/pkg/redis"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Geocode  *geocode.Client
	Registry *prometheus.Registry

	Catalog  catalog.Service
	Cart     cart.Service
	Orders   orders.Service
	Checkout checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Cors),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// storefront browse surface, no auth required
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Catalog, logg))
		r.Get("/search", controllers.ProductSearch(deps.Catalog, logg))
		r.Get("/{slug}", controllers.ProductBySlug(deps.Catalog, logg))
	})
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(deps.Catalog, logg))
		r.Get("/{slug}/products", controllers.ProductsByCategory(deps.Catalog, logg))
	})
	r.Get("/api/v1/geocode/reverse", controllers.GeocodeReverse(deps.Geocode, logg))

	// authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		// order routes keep the paths the storefront client already uses
		r.Route("/order", func(r chi.Router) {
			r.Post("/post", ordercontrollers.Create(deps.Checkout, logg))
			r.Get("/view", ordercontrollers.List(deps.Orders, logg))
			r.Get("/detail/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Patch("/edit/{orderId}", ordercontrollers.EditStatus(deps.Orders, logg))
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Put("/{productId}", controllers.CartUpdate(deps.Cart, logg))
			r.Delete("/{productId}", controllers.CartRemove(deps.Cart, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/{orderId}/payment-link", ordercontrollers.RetryPaymentLink(deps.Checkout, logg))
			r.With(middleware.RequireRole(enums.ActorRoleStaff, logg)).
				Delete("/{orderId}", ordercontrollers.Delete(deps.Orders, logg))
		})
	})

	return r
}
