package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/mahrarshah/foodiehaven-backend/api/routes"
	"github.com/mahrarshah/foodiehaven-backend/internal/auth"
	"github.com/mahrarshah/foodiehaven-backend/internal/cart"
	"github.com/mahrarshah/foodiehaven-backend/internal/checkout"
	"github.com/mahrarshah/foodiehaven-backend/internal/notifications"
	"github.com/mahrarshah/foodiehaven-backend/internal/orders"
	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/internal/products"
	"github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/internal/shops"
	"github.com/mahrarshah/foodiehaven-backend/internal/stats"
	"github.com/mahrarshah/foodiehaven-backend/internal/users"
	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/metrics"
	"github.com/mahrarshah/foodiehaven-backend/pkg/migrate"
	"github.com/mahrarshah/foodiehaven-backend/pkg/pubsub"
	"github.com/mahrarshah/foodiehaven-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
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

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	fees := pricing.NewFeeSchedule(cfg.Checkout)

	usersRepo := users.NewRepository(dbClient.DB())
	shopsRepo := shops.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	promosRepo := promos.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	var ordersSink notifications.EventSink
	if cfg.PubSub.Enabled {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		ordersSink = notifications.NewPubSubSink(pubsubClient.OrdersPublisher())
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{
		Repo:   notificationsRepo,
		Sink:   ordersSink,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	shopsService, err := shops.NewService(shops.ServiceParams{
		Repo:     shopsRepo,
		Cache:    shops.NewCache(redisClient),
		Notifier: notificationsService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shops service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.ServiceParams{
		Repo:  productsRepo,
		Shops: shopsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	promosService, err := promos.NewService(promos.ServiceParams{
		Repo:    promosRepo,
		Metrics: checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create promos service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:       usersRepo,
		Shops:       shopsRepo,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cartStore,
		Products: productsService,
		Shops:    shopsService,
		Promos:   promosService,
		Fees:     fees,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{Repo: ordersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:     cartStore,
		Promos:   promosService,
		Usage:    promosService,
		Orders:   ordersRepo,
		Shops:    shopsService,
		History:  usersService,
		Notifier: notificationsService,
		Fees:     fees,
		Logger:   logg,
		Metrics:  checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.ServiceParams{
		Orders: ordersRepo,
		Shops:  shopsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Shops:         shopsService,
			Products:      productsService,
			Cart:          cartService,
			Promos:        promosService,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Stats:         statsService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
