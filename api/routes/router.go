package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pristeneo/storefront/api/controllers"
	cartcontrollers "github.com/pristeneo/storefront/api/controllers/cart"
	"github.com/pristeneo/storefront/api/middleware"
	"github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/catalog"
	"github.com/pristeneo/storefront/internal/contact"
	"github.com/pristeneo/storefront/internal/orders"
	"github.com/pristeneo/storefront/internal/pages"
	"github.com/pristeneo/storefront/internal/sitemap"
	"github.com/pristeneo/storefront/pkg/config"
	"github.com/pristeneo/storefront/pkg/db"
	"github.com/pristeneo/storefront/pkg/logger"
	"github.com/pristeneo/storefront/pkg/metrics"
	"github.com/pristeneo/storefront/pkg/redis"
)

// Dependencies are the services and clients the router wires into handlers.
// DB and Redis are optional; without Redis the form endpoints run without
// rate limiting or idempotency.
type Dependencies struct {
	DB          *db.Client
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Catalog catalog.Service
	Pages   pages.Service
	Sitemap *sitemap.Builder
	Cart    cart.Service
	Orders  orders.Service
	Contact contact.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.Origins),
	)

	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["db"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, checks, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/{slug}", controllers.ProductGet(deps.Catalog, logg))
	})
	r.Get("/api/pages/{slug}", controllers.PageGet(deps.Pages, logg))
	if deps.Sitemap != nil {
		r.Get("/api/sitemap", controllers.Sitemap(deps.Sitemap, logg))
	}

	cartOrderGuards := formGuards(cfg, logg, deps.Redis, "cart-order")
	contactGuards := formGuards(cfg, logg, deps.Redis, "contact")
	checkoutGuards := formGuards(cfg, logg, deps.Redis, "checkout")

	r.With(cartOrderGuards...).Post("/api/cart-order", controllers.CartOrder(deps.Orders, logg))
	r.With(contactGuards...).Post("/api/contact", controllers.Contact(deps.Contact, logg))

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(middleware.CartSessionOptions{
			CookieName: cfg.Cart.CookieName,
			Secure:     cfg.Cart.CookieSecure,
			MaxAge:     cfg.Cart.TTL,
		}, logg))

		r.Get("/", cartcontrollers.CartView(deps.Cart, logg))
		r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg))
		r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, deps.Catalog, logg))
		r.Patch("/items/{id}", cartcontrollers.CartUpdateItem(deps.Cart, logg))
		r.Delete("/items/{id}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
		r.With(checkoutGuards...).Post("/checkout", cartcontrollers.CartCheckout(deps.Cart, deps.Orders, logg))
	})

	return r
}

// formGuards returns the rate limit and idempotency middleware for a form
// endpoint. Both need Redis.
func formGuards(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, name string) []func(http.Handler) http.Handler {
	if redisClient == nil {
		return nil
	}
	policy := middleware.NewFormRateLimitPolicy(
		name,
		cfg.FormRateLimit.Window,
		cfg.FormRateLimit.IPLimit,
		cfg.FormRateLimit.EmailLimit,
	)
	return []func(http.Handler) http.Handler{
		middleware.FormRateLimit(policy, redisClient, logg),
		middleware.Idempotency(redisClient, logg),
	}
}
