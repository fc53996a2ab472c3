package config

import (
	"fmt"
	"os"
	"time"

	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Booking   BookingConfig   `yaml:"booking"`
	Worker    WorkerConfig    `yaml:"worker"`
	Logger    LoggerConfig    `yaml:"logger"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// UpstreamConfig points at the remote booking API.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// Timezone used for timestamps the API sends without an offset.
	Timezone string `yaml:"timezone"`
}

func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

func (u UpstreamConfig) Location() (*time.Location, error) {
	if u.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(u.Timezone)
}

type BookingConfig struct {
	DraftTTLMinutes          int   `yaml:"draft_ttl_minutes"`
	ReferenceCacheTTLSeconds int   `yaml:"reference_cache_ttl_seconds"`
	SubmitLockSeconds        int   `yaml:"submit_lock_seconds"`
	MaxPassengers            int   `yaml:"max_passengers"`
	DefaultTicketTypeID      int64 `yaml:"default_ticket_type_id"`
}

func (b BookingConfig) DraftTTL() time.Duration {
	return time.Duration(b.DraftTTLMinutes) * time.Minute
}

func (b BookingConfig) ReferenceCacheTTL() time.Duration {
	return time.Duration(b.ReferenceCacheTTLSeconds) * time.Second
}

func (b BookingConfig) SubmitLockTTL() time.Duration {
	return time.Duration(b.SubmitLockSeconds) * time.Second
}

// WorkerConfig drives the expiry sweep. The service account is optional and
// lets the sweep read booking status from the API.
type WorkerConfig struct {
	ExpirationSweepMinutes int    `yaml:"expiration_sweep_minutes"`
	ServiceEmail           string `yaml:"service_email"`
	ServicePassword        string `yaml:"service_password"`
}

type LoggerConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

func defaults() Config {
	return Config{
		HTTP:     HTTPConfig{Address: ":8080"},
		GRPC:     GRPCConfig{Address: ":9090"},
		Upstream: UpstreamConfig{BaseURL: "http://localhost:8000", TimeoutSeconds: 10},
		Booking: BookingConfig{
			DraftTTLMinutes:          60,
			ReferenceCacheTTLSeconds: 60,
			SubmitLockSeconds:        30,
			DefaultTicketTypeID:      1,
		},
		Worker:    WorkerConfig{ExpirationSweepMinutes: 5},
		Logger:    LoggerConfig{Level: "info"},
		RateLimit: RateLimitConfig{PerMinute: 120, Burst: 20},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, so omitted keys keep their default value.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("upstream.base_url is required")
	}
	if _, err := cfg.Upstream.Location(); err != nil {
		return nil, fmt.Errorf("upstream.timezone: %w", err)
	}
	if cfg.Worker.ExpirationSweepMinutes <= 0 {
		return nil, fmt.Errorf("worker.expiration_sweep_minutes must be positive")
	}
	if cfg.Booking.SubmitLockSeconds <= 0 {
		return nil, fmt.Errorf("booking.submit_lock_seconds must be positive")
	}
	if cfg.Booking.SubmitLockSeconds <= cfg.Upstream.TimeoutSeconds {
		return nil, fmt.Errorf("booking.submit_lock_seconds must exceed upstream.timeout_seconds")
	}
	return &cfg, nil
}
