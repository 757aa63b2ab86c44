package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tienda-labs/tienda/api-contract"
	"github.com/tienda-labs/tienda/internal/config"
	"github.com/tienda-labs/tienda/internal/http/metric"
	"github.com/tienda-labs/tienda/internal/http/middleware"
	"github.com/tienda-labs/tienda/internal/http/swagger"
	"github.com/tienda-labs/tienda/internal/service"
	"github.com/tienda-labs/tienda/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents one HTTP service (catalog or inventory).
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	swaggerSpec    []byte
	registerRoutes func(chi.Router)
}

type CleanupFunc func(ctx context.Context) error

// NewCatalogService builds the catalog HTTP service.
func NewCatalogService(
	cfg config.HTTP,
	log *slog.Logger,
	catalogSvc service.CatalogService,
) *Service {
	s := newService(cfg, log)
	h := newCatalogHandler(s.logger, validator.NewDefaultValidator(), catalogSvc)

	s.swaggerSpec = apicontract.GetCatalogSpecBytes()
	s.registerRoutes = h.RegisterRoutes

	return s
}

// NewInventoryService builds the inventory HTTP service.
func NewInventoryService(
	cfg config.HTTP,
	log *slog.Logger,
	inventorySvc service.InventoryService,
) *Service {
	s := newService(cfg, log)
	h := newInventoryHandler(s.logger, validator.NewDefaultValidator(), inventorySvc)

	s.swaggerSpec = apicontract.GetInventorySpecBytes()
	s.registerRoutes = h.RegisterRoutes

	return s
}

func newService(cfg config.HTTP, log *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		logger:  log.With(slog.String("service", "http")),
		metrics: metric.New(),
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r, s.swaggerSpec)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	s.registerRoutes(r)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}
