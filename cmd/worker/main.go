package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/bookingapi"
	"github.com/Domenick1991/airbooking-web/internal/cache"
	"github.com/Domenick1991/airbooking-web/internal/email"
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

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.ReferenceCacheTTL(), cfg.Booking.DraftTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg.Named("kafka"))
	defer producer.Close()

	loc, err := cfg.Upstream.Location()
	if err != nil {
		lg.Fatal("upstream timezone", zap.Error(err))
	}
	client := bookingapi.NewClient(cfg.Upstream.BaseURL,
		bookingapi.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout()}),
		bookingapi.WithLogger(lg.Named("bookingapi")),
		bookingapi.WithLocation(loc),
	)

	opts := []booking.BookingServiceOption{
		booking.WithEventPublisher(kafka.NewEventPublisher(producer, cfg.Kafka.BookingTopic, cfg.Kafka.NotificationsTopic)),
		booking.WithLogger(lg.Named("booking")),
	}
	if cfg.Worker.ServiceEmail != "" {
		creds := bookingapi.Credentials{Email: cfg.Worker.ServiceEmail, Password: cfg.Worker.ServicePassword}
		opts = append(opts, booking.WithSweepLogin(func(ctx context.Context) (string, error) {
			return client.Login(ctx, creds)
		}))
	} else {
		lg.Warn("no worker service account; overdue bookings the API hides are recorded as expired")
	}

	bookingService := booking.NewBookingService(
		client,
		catalog.NewCatalogService(client, redisCache, lg.Named("catalog")),
		redisCache,
		repository.NewSubmissionRepository(pool),
		opts...,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, lg.Named("consumer"))
	defer consumer.Close()

	emailSender := email.NewSender(lg.Named("email"))

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			lg.Error("consumer stopped", zap.Error(err))
			stop()
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	lg.Info("worker started", zap.Int("sweep_minutes", cfg.Worker.ExpirationSweepMinutes))
	for {
		select {
		case <-expireTicker.C:
			settled, err := bookingService.SweepExpired(ctx)
			if err != nil {
				lg.Error("sweep expired bookings", zap.Error(err))
				continue
			}
			if len(settled) > 0 {
				lg.Info("settled expired bookings", zap.Int("count", len(settled)))
			}
		case <-ctx.Done():
			lg.Info("shutting down")
			return
		}
	}
}
