package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	cataloghandler "storefront/internal/catalog/handler"
	catalogmetrics "storefront/internal/catalog/metrics"
	"storefront/internal/catalog/seed"
	catalogservice "storefront/internal/catalog/service"
	catalogstore "storefront/internal/catalog/store"
	contacthandler "storefront/internal/contact/handler"
	contactmetrics "storefront/internal/contact/metrics"
	contactservice "storefront/internal/contact/service"
	contactstore "storefront/internal/contact/store"
	"storefront/internal/notify"
	notifymetrics "storefront/internal/notify/metrics"
	"storefront/internal/platform/config"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/platform/middleware"
	"storefront/internal/platform/migrations"
	"storefront/internal/platform/mongo"
	"storefront/internal/platform/postgres"
	"storefront/internal/platform/redis"
	ratelimitmetrics "storefront/internal/ratelimit/metrics"
	ratelimitmw "storefront/internal/ratelimit/middleware"
	"storefront/internal/ratelimit/store/bucket"
	httptransport "storefront/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

type catalogStore interface {
	seed.Store
	catalogservice.Store
}

// stores bundles the backing stores for the configured driver.
type stores struct {
	catalog catalogStore
	contact contactservice.Store
	health  httptransport.HealthCheck
	close   func(context.Context)
}

// main wires high-level dependencies, seeds the catalog, and runs the HTTP
// server until SIGINT or SIGTERM. Business logic lives in internal packages.
func main() {
	config.LoadDotEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.WithoutCancel(ctx))

	healthChecks := map[string]httptransport.HealthCheck{"store": st.health}
	catalogMetrics := catalogmetrics.New(reg)

	seedOpts := []seed.Option{
		seed.WithLogger(log),
		seed.WithMetrics(catalogMetrics),
	}
	redisClient, err := redis.New(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.Warn("redis unavailable, seeding without barrier", "error", err)
	case redisClient != nil:
		defer redisClient.Close()
		healthChecks["redis"] = redisClient.Health
		seedOpts = append(seedOpts, seed.WithBarrier(
			seed.NewRedisBarrier(redisClient, "storefront:seed:"+cfg.CatalogRoute, cfg.Redis.LockTTL),
		))
	}

	if cfg.SeedOnStart {
		seed.New(st.catalog, seedOpts...).Run(ctx)
	}

	transport := notify.NewTransport(cfg.Email, notify.DefaultEtherealEndpoint, log)
	notifier := notify.New(transport, cfg.Email,
		notify.WithLogger(log),
		notify.WithMetrics(notifymetrics.New(reg)),
	)

	catalogSvc := catalogservice.New(st.catalog,
		catalogservice.WithLogger(log),
		catalogservice.WithMetrics(catalogMetrics),
	)
	contactSvc := contactservice.New(st.contact, notifier,
		contactservice.WithLogger(log),
		contactservice.WithMetrics(contactmetrics.New(reg)),
	)

	buckets := bucket.NewInMemoryBucketStore(cfg.RateLimit.ContactRPS, cfg.RateLimit.ContactBurst)
	limiter := ratelimitmw.New(buckets, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.ContactRPS <= 0),
		ratelimitmw.WithMetrics(ratelimitmetrics.New(reg)),
	)

	clientIP, err := middleware.NewIPResolver(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		APIs: []httptransport.Registrar{
			cataloghandler.New(catalogSvc, log, cfg.CatalogRoute),
			contacthandler.New(contactSvc, log, limiter.RateLimit("contact")),
		},
		HealthChecks: healthChecks,
		PublicDir:    cfg.PublicDir,
		ClientIP:     clientIP,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		buckets.StartJanitor(gctx)
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		log.Info("starting storefront", "catalog_route", cfg.CatalogRoute, "store", cfg.Store.Driver)
		return httpserver.Run(gctx, srv, log, shutdownTimeout)
	})
	return g.Wait()
}

// openStores connects the configured backing store. An unreachable database
// is logged, not fatal; requests fail until it becomes reachable.
func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongo.New(cfg.Store)
		if err != nil {
			return nil, err
		}
		catalog := catalogstore.NewMongo(client.Database(), cfg.CatalogRoute)
		if err := client.Health(ctx); err != nil {
			log.Error("mongo unreachable at startup", "error", err)
		} else if err := catalog.EnsureIndexes(ctx); err != nil {
			log.Error("failed to ensure catalog indexes", "error", err)
		} else {
			log.Info("connected to mongo", "database", client.Database().Name())
		}
		return &stores{
			catalog: catalog,
			contact: contactstore.NewMongo(client.Database()),
			health:  client.Health,
			close: func(ctx context.Context) {
				if err := client.Close(ctx); err != nil {
					log.Warn("failed to close mongo client", "error", err)
				}
			},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Store)
		if err != nil {
			return nil, err
		}
		if err := postgres.Health(ctx, db); err != nil {
			log.Error("postgres unreachable at startup", "error", err)
		} else if err := migrations.Apply(ctx, db); err != nil {
			log.Error("failed to apply migrations", "error", err)
		} else {
			log.Info("connected to postgres")
		}
		return &stores{
			catalog: catalogstore.NewPostgres(db),
			contact: contactstore.NewPostgres(db),
			health:  func(ctx context.Context) error { return postgres.Health(ctx, db) },
			close:   func(context.Context) { closeDB(db, log) },
		}, nil

	default:
		log.Warn("using in-memory store; data is lost on restart")
		return &stores{
			catalog: catalogstore.NewInMemory(),
			contact: contactstore.NewInMemory(),
			health:  func(context.Context) error { return nil },
			close:   func(context.Context) {},
		}, nil
	}
}

func closeDB(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("failed to close postgres", "error", err)
	}
}
