package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/bookingapi"
	"github.com/Domenick1991/airbooking-web/internal/bootstrap"
	"github.com/Domenick1991/airbooking-web/internal/cache"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/logger"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		lg.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	submissions := repository.NewSubmissionRepository(pool)
	if err := submissions.Migrate(ctx); err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.ReferenceCacheTTL(), cfg.Booking.DraftTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg.Named("kafka"))
	defer producer.Close()
	events := kafka.NewEventPublisher(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic)

	loc, err := cfg.Upstream.Location()
	if err != nil {
		lg.Fatal("upstream timezone", zap.Error(err))
	}
	client := bookingapi.NewClient(cfg.Upstream.BaseURL,
		bookingapi.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout()}),
		bookingapi.WithLogger(lg.Named("bookingapi")),
		bookingapi.WithLocation(loc),
	)

	catalogService := catalog.NewCatalogService(client, redisCache, lg.Named("catalog"))
	bookingService := booking.NewBookingService(
		client,
		catalogService,
		redisCache,
		submissions,
		booking.WithEventPublisher(events),
		booking.WithLogger(lg.Named("booking")),
		booking.WithSubmitLockTTL(cfg.Booking.SubmitLockTTL()),
		booking.WithMaxPassengers(cfg.Booking.MaxPassengers),
		booking.WithFallbackTicketType(cfg.Booking.DefaultTicketTypeID),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Catalog:  catalogService,
		Bookings: bookingService,
		Auth:     client,
		Probes: map[string]bootstrap.Probe{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
			"kafka":    producer.CheckConnection,
		},
	}, lg)
	if err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}
