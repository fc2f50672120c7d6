package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда значения конфигурации противоречат друг другу
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Режимы проверки конфликтов с существующими сессиями
const (
	ConflictModeDate = "date" // любая активная сессия блокирует весь день
	ConflictModeSlot = "slot" // блокируется только слот с совпадающим временем начала
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Payments      PaymentsConfig      `toml:"payments"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	DefaultHorizonDays int    `toml:"default_horizon_days"`
	MaxHorizonDays     int    `toml:"max_horizon_days"`
	Timezone           string `toml:"timezone"`
	ConflictMode       string `toml:"conflict_mode"`
	MinNoticeMinutes   int    `toml:"min_notice_minutes"`
	DraftTTLMinutes    int    `toml:"draft_ttl_minutes"`
	ReadRetries        int    `toml:"read_retries"`
}

// Location часовой пояс календарных дат. Validate гарантирует, что он существует.
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DraftTTL время жизни черновика бронирования
func (b BookingConfig) DraftTTL() time.Duration {
	return time.Duration(b.DraftTTLMinutes) * time.Minute
}

type PaymentsConfig struct {
	Currency              string `toml:"currency"`
	CaptureTimeoutSeconds int    `toml:"capture_timeout_seconds"`
	StripeSecretKey       string `toml:"stripe_secret_key"`
}

// CaptureTimeout таймаут вызова платежного шлюза
func (p PaymentsConfig) CaptureTimeout() time.Duration {
	return time.Duration(p.CaptureTimeoutSeconds) * time.Second
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Queue   string `toml:"queue"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает TOML файл, применяет значения по умолчанию и переменные окружения.
// Файл .env (если есть) загружается до чтения окружения.
func Load(path string) (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrationsPath:  "file://migrations",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Logs:  LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "mentorbooking",
		},
		Booking: BookingConfig{
			DefaultHorizonDays: 60,
			MaxHorizonDays:     365,
			Timezone:           "UTC",
			ConflictMode:       ConflictModeDate,
			MinNoticeMinutes:   60,
			DraftTTLMinutes:    30,
			ReadRetries:        2,
		},
		Payments: PaymentsConfig{
			Currency:              "usd",
			CaptureTimeoutSeconds: 15,
		},
		Notifications: NotificationsConfig{Queue: "notifications"},
		RateLimit:     RateLimitConfig{RPS: 10, Burst: 20},
	}
}

// applyEnv секреты из окружения перекрывают значения из файла
func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Payments.StripeSecretKey = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	b := c.Booking
	if b.DefaultHorizonDays <= 0 || b.MaxHorizonDays <= 0 {
		return fmt.Errorf("%w: booking horizons must be positive", ErrInvalidConfig)
	}
	if b.DefaultHorizonDays > b.MaxHorizonDays {
		return fmt.Errorf("%w: booking.default_horizon_days exceeds max_horizon_days", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	switch b.ConflictMode {
	case ConflictModeDate, ConflictModeSlot:
	default:
		return fmt.Errorf("%w: booking.conflict_mode %q", ErrInvalidConfig, b.ConflictMode)
	}
	if b.MinNoticeMinutes < 0 || b.ReadRetries < 0 {
		return fmt.Errorf("%w: booking.min_notice_minutes and read_retries must not be negative", ErrInvalidConfig)
	}
	if b.DraftTTLMinutes <= 0 {
		return fmt.Errorf("%w: booking.draft_ttl_minutes must be positive", ErrInvalidConfig)
	}

	if c.Payments.CaptureTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: payments.capture_timeout_seconds must be positive", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit rps and burst must be positive", ErrInvalidConfig)
	}

	return nil
}
