package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahrarshah/foodiehaven-backend/api/controllers"
	"github.com/mahrarshah/foodiehaven-backend/api/middleware"
	authsvc "github.com/mahrarshah/foodiehaven-backend/internal/auth"
	cartsvc "github.com/mahrarshah/foodiehaven-backend/internal/cart"
	checkoutsvc "github.com/mahrarshah/foodiehaven-backend/internal/checkout"
	notificationssvc "github.com/mahrarshah/foodiehaven-backend/internal/notifications"
	orderssvc "github.com/mahrarshah/foodiehaven-backend/internal/orders"
	productssvc "github.com/mahrarshah/foodiehaven-backend/internal/products"
	promossvc "github.com/mahrarshah/foodiehaven-backend/internal/promos"
	shopssvc "github.com/mahrarshah/foodiehaven-backend/internal/shops"
	statssvc "github.com/mahrarshah/foodiehaven-backend/internal/stats"
	userssvc "github.com/mahrarshah/foodiehaven-backend/internal/users"
	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          authsvc.Service
	Users         userssvc.Service
	Shops         shopssvc.Service
	Products      productssvc.Service
	Cart          cartsvc.Service
	Promos        promossvc.Service
	Checkout      checkoutsvc.Service
	Orders        orderssvc.Service
	Stats         statssvc.Service
	Notifications notificationssvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
	})

	// Public storefront browse.
	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Get("/", controllers.ShopsList(svcs.Shops, logg))
		r.Get("/{shopID}", controllers.ShopGet(svcs.Shops, logg))
		r.Get("/{shopID}/products", controllers.ShopProductsList(svcs.Products, logg))
	})
	r.Get("/api/v1/products", controllers.ProductsList(svcs.Products, logg))
	r.Get("/api/v1/products/{productID}", controllers.ProductGet(svcs.Products, logg))
	r.Get("/api/v1/products/{productID}/reviews", controllers.ReviewsList(svcs.Products, logg))

	// Authenticated surface. An inline group keeps the shared
	// /api/v1/products nodes method-split between public reads and
	// authenticated writes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/api/v1/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svcs.Users, logg))
			r.Patch("/", controllers.ProfileUpdate(svcs.Users, logg))
			r.Post("/addresses", controllers.AddressAdd(svcs.Users, logg))
			r.Delete("/addresses/{index}", controllers.AddressRemove(svcs.Users, logg))
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/promo", controllers.CartRemovePromo(svcs.Cart, logg))
		})
		r.Post("/api/v1/promos/apply", controllers.CartApplyPromo(svcs.Cart, logg))

		r.Post("/api/v1/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.OrderCancel(svcs.Orders, logg))
		})

		r.Post("/api/v1/products/{productID}/reviews", controllers.ReviewCreate(svcs.Products, logg))

		r.Route("/api/v1/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleVendor), logg))

			r.Route("/shop", func(r chi.Router) {
				r.Get("/", controllers.VendorShopGet(svcs.Shops, logg))
				r.Post("/", controllers.VendorShopCreate(svcs.Shops, logg))
				r.Patch("/", controllers.VendorShopUpdate(svcs.Shops, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.VendorProductsList(svcs.Products, logg))
				r.Post("/", controllers.VendorProductCreate(svcs.Products, logg))
				r.Patch("/{productID}", controllers.VendorProductUpdate(svcs.Products, logg))
				r.Delete("/{productID}", controllers.VendorProductDelete(svcs.Products, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.VendorOrdersList(svcs.Orders, logg))
				r.Post("/{orderID}/status", controllers.VendorOrderStatus(svcs.Orders, logg))
			})

			r.Get("/stats", controllers.VendorStats(svcs.Stats, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.VendorNotificationsList(svcs.Notifications, logg))
				r.Post("/{notificationID}/read", controllers.VendorNotificationRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.VendorNotificationsReadAll(svcs.Notifications, logg))
			})

			r.Route("/promos", func(r chi.Router) {
				r.Get("/", controllers.VendorPromosList(svcs.Promos, logg))
				r.Post("/", controllers.VendorPromoCreate(svcs.Promos, logg))
				r.Delete("/{promoID}", controllers.VendorPromoDelete(svcs.Promos, logg))
			})
		})
	})

	// Admin surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Get("/overview", controllers.AdminOverview(svcs.Stats, logg))

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.AdminShopsList(svcs.Shops, logg))
			r.Post("/{shopID}/verify", controllers.AdminShopVerify(svcs.Shops, logg))
			r.Post("/{shopID}/suspend", controllers.AdminShopSuspend(svcs.Shops, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(svcs.Orders, logg))
			r.Post("/{orderID}/status", controllers.AdminOrderStatus(svcs.Orders, logg))
		})

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.AdminPromosList(svcs.Promos, logg))
			r.Post("/", controllers.AdminPromoCreate(svcs.Promos, logg))
			r.Patch("/{promoID}", controllers.AdminPromoUpdate(svcs.Promos, logg))
			r.Delete("/{promoID}", controllers.AdminPromoDelete(svcs.Promos, logg))
		})
	})

	return r
}
