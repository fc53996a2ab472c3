package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/Domenick1991/airbooking-web/api"
	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const probeInterval = 15 * time.Second

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

type Services struct {
	Catalog  catalog.CatalogUseCase
	Bookings booking.BookingUseCase
	Auth     api.AuthUseCase
	Probes   map[string]Probe
}

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
	probes     map[string]Probe
	log        *zap.Logger
}

// Run starts the HTTP API and the gRPC health service and blocks until ctx is
// canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log *zap.Logger) error {
	s := newServers(cfg, svc, log)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()
	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go s.watchProbes(ctx)

	log.Info("servers started",
		zap.String("http", cfg.HTTP.Address),
		zap.String("grpc", cfg.GRPC.Address),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services, log *zap.Logger) *Servers {
	grpcSrv := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, hs)

	return &Servers{
		grpcServer: grpcSrv,
		health:     hs,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(cfg, svc, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		probes: svc.Probes,
		log:    log,
	}
}

// NewRouter wires every HTTP route. Mutating routes share one rate limiter.
func NewRouter(cfg *config.Config, svc Services, log *zap.Logger) *gin.Engine {
	if !cfg.Logger.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.RequestID(), api.Logger(log), api.Recovery(log), api.Identity())

	limiter := api.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, log)
	root := router.Group("")
	api.NewFlightHandler(svc.Catalog).Register(root)
	api.NewDraftHandler(svc.Bookings).Register(root, limiter.Middleware())
	api.NewBookingHandler(svc.Bookings).Register(root, limiter.Middleware())
	api.NewAuthHandler(svc.Auth).Register(root, limiter.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		if failed := runProbes(c.Request.Context(), svc.Probes); len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/airbooking-web.swagger.json"),
		)))
	}
	return router
}

func (s *Servers) watchProbes(ctx context.Context) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	for {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if failed := runProbes(ctx, s.probes); len(failed) > 0 {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			s.log.Warn("dependency probe failed", zap.Strings("failed", failed))
		}
		s.health.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runProbes(ctx context.Context, probes map[string]Probe) []string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var failed []string
	for name, probe := range probes {
		if err := probe(ctx); err != nil {
			failed = append(failed, name)
		}
	}
	slices.Sort(failed)
	return failed
}
