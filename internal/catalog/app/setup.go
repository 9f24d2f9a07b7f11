// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/catalog/blob"
	"github.com/abgdnv/catalog/internal/catalog/config"
	"github.com/abgdnv/catalog/internal/catalog/generator"
	"github.com/abgdnv/catalog/internal/catalog/inventory"
	"github.com/abgdnv/catalog/internal/catalog/migrations"
	"github.com/abgdnv/catalog/internal/catalog/service"
	"github.com/abgdnv/catalog/internal/catalog/store"
	grpcImpl "github.com/abgdnv/catalog/internal/catalog/transport/grpc"
	"github.com/abgdnv/catalog/internal/catalog/transport/rest"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	pkgnats "github.com/abgdnv/catalog/pkg/nats"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Registry       *prometheus.Registry
	ImageMaxBytes  int64

	closers []func()
}

// NewRegistry returns a Prometheus registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// SetupDependencies connects to PostgreSQL, NATS and the configured blob backend and builds the product service.
// Migrations are applied first when database.migrate is set.
// Everything opened here is released by Close, also when setup fails halfway.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (deps *Dependencies, err error) {
	deps = &Dependencies{
		Logger:        logger,
		Registry:      registry,
		ImageMaxBytes: cfg.Images.MaxBytes,
	}
	defer func() {
		if err != nil {
			deps.Close()
			deps = nil
		}
	}()

	if cfg.Database.Migrate {
		if err := bootstrap.Migrate(migrations.FS, ".", cfg.Database.URL); err != nil {
			return deps, err
		}
		logger.Info("Database migrations applied")
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return deps, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	deps.closers = append(deps.closers, dbPool.Close)
	logger.Info("Successfully connected to the database!")

	nc, err := pkgnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return deps, err
	}
	deps.closers = append(deps.closers, nc.Close)
	js, err := pkgnats.NewJetStreamContext(nc)
	if err != nil {
		return deps, err
	}
	if _, err := pkgnats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.ProductsSubject); err != nil {
		return deps, err
	}
	logger.Info("Successfully connected to NATS", slog.String("stream", cfg.NATS.Stream))

	var blobs blob.Store
	switch cfg.Storage.Driver {
	case pkgconfig.StorageDriverRedis:
		client, err := bootstrap.NewRedisClient(ctx, bootstrap.RedisOptions{
			Addr:        cfg.Redis.Addr,
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return deps, err
		}
		deps.closers = append(deps.closers, func() {
			_ = client.Close()
		})
		blobs = blob.NewRedisStore(client, cfg.Storage.KeyPrefix)
	default:
		blobs, err = blob.NewNatsStore(ctx, js, cfg.Storage.Bucket)
		if err != nil {
			return deps, err
		}
	}
	logger.Info("Image storage ready", slog.String("driver", cfg.Storage.Driver))

	deps.ProductService = service.NewService(
		store.NewPgStore(dbPool),
		inventory.NewClient(cfg.Inventory.URL, cfg.Inventory.Timeout),
		blobs,
		pkgnats.NewNatsPublisher(js),
		generator.New(),
	)
	return deps, nil
}

// Close releases the connections in reverse order of opening.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// SetupHttpHandler initializes the routes and middleware of the catalog service.
// Used by E2E tests to serve the handler without a listening server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, web.NewHTTPMetrics(deps.Registry), deps.Registry)
	rest.NewHandler(deps.ProductService, deps.Logger, deps.ImageMaxBytes).RegisterRoutes(mux)
	return mux
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config, serviceName string) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, serviceName, mux)
}

// SetupGrpcServer initializes the gRPC server with the catalog and health services.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	catalogRegisterFunc := func(s *grpc.Server) {
		grpcImpl.Register(s, grpcImpl.NewServer(deps.ProductService))
	}
	return server.NewGRPCServer(reflectionEnabled, healthServer, catalogRegisterFunc), healthServer
}
