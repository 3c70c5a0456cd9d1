package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/pristeneo/storefront/api/routes"
	"github.com/pristeneo/storefront/internal/cart"
	"github.com/pristeneo/storefront/internal/catalog"
	"github.com/pristeneo/storefront/internal/contact"
	"github.com/pristeneo/storefront/internal/content"
	"github.com/pristeneo/storefront/internal/orders"
	"github.com/pristeneo/storefront/internal/pages"
	"github.com/pristeneo/storefront/internal/richtext"
	"github.com/pristeneo/storefront/internal/sitemap"
	"github.com/pristeneo/storefront/pkg/config"
	"github.com/pristeneo/storefront/pkg/db"
	"github.com/pristeneo/storefront/pkg/email"
	"github.com/pristeneo/storefront/pkg/instance"
	"github.com/pristeneo/storefront/pkg/logger"
	"github.com/pristeneo/storefront/pkg/metrics"
	"github.com/pristeneo/storefront/pkg/redis"
	"github.com/pristeneo/storefront/pkg/sanity"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env, "instance": instance.ID()},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

type closer interface {
	Close() error
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		closers = append(closers, redisClient)
	}

	var dbClient *db.Client
	if cfg.DB.DSN != "" {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			return fmt.Errorf("bootstrap database: %w", err)
		}
		closers = append(closers, dbClient)
	}

	cartStore, err := newCartStore(ctx, cfg, redisClient, dbClient)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartStore)
	if err != nil {
		return err
	}

	sanityClient, err := sanity.NewClient(
		cfg.Sanity.ProjectID,
		cfg.Sanity.Dataset,
		cfg.Sanity.APIVersion,
		sanity.WithToken(cfg.Sanity.Token),
		sanity.WithCDN(cfg.Sanity.UseCDN),
		sanity.WithHTTPClient(&http.Client{Timeout: cfg.Sanity.Timeout}),
	)
	if err != nil {
		return fmt.Errorf("create sanity client: %w", err)
	}
	sanitySource, err := content.NewSanitySource(sanityClient)
	if err != nil {
		return err
	}
	var source content.Source = sanitySource
	if redisClient != nil {
		source, err = content.NewCachedSource(sanitySource, redisClient, cfg.Sanity.Revalidate, logg)
		if err != nil {
			return err
		}
	}

	catalogService, err := catalog.NewService(source)
	if err != nil {
		return err
	}
	pagesService, err := pages.NewService(source, richtext.NewPortableText(sanityClient.ProjectID(), sanityClient.Dataset()))
	if err != nil {
		return err
	}
	sitemapBuilder, err := sitemap.NewBuilder(source, cfg.App.SiteURL)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	emailMetrics := metrics.NewEmailMetrics(registry)

	sender, err := newSender(cfg, emailMetrics)
	if err != nil {
		return err
	}
	if sender == nil {
		logg.Warn(ctx, "resend api key missing, form emails will be logged instead of sent")
	}
	addresses := email.Addresses{From: cfg.Email.From(cfg.App), Owner: cfg.Email.OwnerAddress}

	ordersService, err := orders.NewService(sender, addresses, emailMetrics, logg)
	if err != nil {
		return err
	}
	contactService, err := contact.NewService(sender, addresses, emailMetrics, logg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:          dbClient,
		Redis:       redisClient,
		Gatherer:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Catalog:     catalogService,
		Pages:       pagesService,
		Sitemap:     sitemapBuilder,
		Cart:        cartService,
		Orders:      ordersService,
		Contact:     contactService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":         addr,
		"cart_backend": cfg.Cart.NormalizedBackend(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newCartStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, dbClient *db.Client) (cart.Store, error) {
	switch cfg.Cart.NormalizedBackend() {
	case config.CartBackendRedis:
		return cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	case config.CartBackendSQL:
		store, err := cart.NewSQLStore(dbClient.DB())
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate cart sessions: %w", err)
		}
		return store, nil
	default:
		return cart.NewMemoryStore(), nil
	}
}

// newSender returns a nil Sender when no API key is configured, which puts
// the form services in degraded mode.
func newSender(cfg *config.Config, m *metrics.EmailMetrics) (email.Sender, error) {
	if !cfg.Email.Configured() {
		return nil, nil
	}
	resendSender, err := email.NewResendSender(cfg.Email.ResendAPIKey)
	if err != nil {
		return nil, fmt.Errorf("create resend sender: %w", err)
	}
	return email.NewInstrumented(resendSender, m), nil
}
