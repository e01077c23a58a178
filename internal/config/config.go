// Package config loads the service configuration from a TOML file.
// Secrets may be supplied through the environment (or a .env file) instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

// Бэкенды хранилища бронирований и расписаний
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Переменные окружения, перекрывающие значения из файла (теги env в структурах)
const (
	EnvDatabasePassword = "APPOINTMENTS_DB_PASSWORD"
	EnvRedisPassword    = "APPOINTMENTS_REDIS_PASSWORD"
	EnvAdminToken       = "APPOINTMENTS_ADMIN_TOKEN"
	EnvAmqpURL          = "APPOINTMENTS_AMQP_URL"
)

var (
	// ErrRead возвращается, когда файл конфигурации не удалось прочитать
	ErrRead = errors.New("config: failed to read file")

	// ErrInvalid возвращается, когда конфигурация не прошла проверку
	ErrInvalid = errors.New("config: invalid configuration")
)

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Storage       StorageConfig       `toml:"storage"`
	Booking       BookingConfig       `toml:"booking"`
	Cache         CacheConfig         `toml:"cache"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Admin         AdminConfig         `toml:"admin"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password" env:"APPOINTMENTS_DB_PASSWORD"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	LockTimeoutMs   int    `toml:"lock_timeout_ms" validate:"min=0"`
}

type RedisConfig struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password" env:"APPOINTMENTS_REDIS_PASSWORD"`
	DB              int    `toml:"db" validate:"min=0"`
	LockTTLMs       int    `toml:"lock_ttl_ms" validate:"min=0"`
	LockTimeoutMs   int    `toml:"lock_timeout_ms" validate:"min=0"`
	RetryIntervalMs int    `toml:"retry_interval_ms" validate:"min=0"`
}

// StorageConfig выбор бэкендов.
// memory - деградированный режим для разработки: данные живут только в процессе.
type StorageConfig struct {
	Bookings     string `toml:"bookings" validate:"oneof=postgres redis memory"`
	Schedule     string `toml:"schedule" validate:"oneof=postgres memory"`
	SeedFile     string `toml:"seed_file"`
	AllowDegrade bool   `toml:"allow_degraded"`
}

type BookingConfig struct {
	WindowStart   string `toml:"window_start"`
	WindowEnd     string `toml:"window_end"`
	StepMinutes   int    `toml:"step_minutes"`
	BlackoutSlots int    `toml:"blackout_slots"`
	LeadDays      int    `toml:"lead_days"`
	Timezone      string `toml:"timezone"`
}

type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	Size       int  `toml:"size" validate:"min=1"`
	TTLSeconds int  `toml:"ttl_seconds" validate:"min=1"`
}

type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

type AdminConfig struct {
	Token string `toml:"token" env:"APPOINTMENTS_ADMIN_TOKEN"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute" validate:"min=1"`
	Burst             int  `toml:"burst" validate:"min=1"`
	MaxClients        int  `toml:"max_clients" validate:"min=1"`
	IdleTTLSeconds    int  `toml:"idle_ttl_seconds" validate:"min=1"`
	TrustForwarded    bool `toml:"trust_forwarded"`
}

type NotificationsConfig struct {
	Enabled          bool   `toml:"enabled"`
	AmqpURL          string `toml:"amqp_url" env:"APPOINTMENTS_AMQP_URL"`
	Exchange         string `toml:"exchange"`
	PublishTimeoutMs int    `toml:"publish_timeout_ms" validate:"min=0"`
}

// Load читает файл, подставляет значения по умолчанию и секреты из окружения, затем проверяет результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrRead, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	// секреты из окружения перекрывают значения из файла
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrRead, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация для локального запуска
func Default() *Config {
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
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			LockTimeoutMs:   5000,
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			LockTTLMs:       10000,
			LockTimeoutMs:   3000,
			RetryIntervalMs: 25,
		},
		Storage: StorageConfig{
			Bookings: BackendPostgres,
			Schedule: BackendPostgres,
		},
		Booking: BookingConfig{
			WindowStart:   domain.DefaultWindowStart,
			WindowEnd:     domain.DefaultWindowEnd,
			StepMinutes:   domain.DefaultStepMinutes,
			BlackoutSlots: domain.DefaultBlackoutSlots,
			LeadDays:      domain.DefaultLeadDays,
			Timezone:      "Local",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Size:       64,
			TTLSeconds: 60,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			Burst:             10,
			MaxClients:        10000,
			IdleTTLSeconds:    600,
		},
		Notifications: NotificationsConfig{
			Exchange:         "appointments.events",
			PublishTimeoutMs: 2000,
		},
	}
}

// Validate проверяет теги и связи между секциями
func (c *Config) Validate() error {
	errs := validation.Struct(c)

	usesPostgres := c.Storage.Bookings == BackendPostgres || c.Storage.Schedule == BackendPostgres
	if usesPostgres {
		if c.Database.Host == "" {
			errs.Add("database.host", "is required for the postgres backend")
		}
		if c.Database.DBName == "" {
			errs.Add("database.dbname", "is required for the postgres backend")
		}
	}
	if c.Storage.Bookings == BackendRedis {
		if err := validation.Validator().Var(c.Redis.Addr, "required,hostname_port"); err != nil {
			errs.Add("redis.addr", "must be host:port")
		}
		// ключ блокировки не должен истечь, пока конкурент еще ждет ее
		if c.Redis.LockTTLMs > 0 && c.Redis.LockTTLMs <= c.Redis.LockTimeoutMs {
			errs.Add("redis.lock_ttl_ms", "must be greater than redis.lock_timeout_ms")
		}
	}
	if c.Storage.Schedule == BackendMemory && c.Storage.SeedFile == "" {
		errs.Add("storage.seed_file", "is required for the memory schedule backend")
	}
	if (c.Storage.Bookings == BackendMemory || c.Storage.Schedule == BackendMemory) && !c.Storage.AllowDegrade {
		errs.Add("storage.allow_degraded", "must be true to run with the in-memory backend")
	}
	if c.Notifications.Enabled {
		if c.Notifications.AmqpURL == "" {
			errs.Add("notifications.amqp_url", "is required when notifications are enabled")
		}
		if c.Notifications.Exchange == "" {
			errs.Add("notifications.exchange", "is required when notifications are enabled")
		}
	}
	if c.Admin.Token == "" {
		errs.Add("admin.token", "is required (set "+EnvAdminToken+")")
	}

	if _, err := c.BookingRules(); err != nil {
		errs.Add("booking", err.Error())
	}
	if _, err := c.Location(); err != nil {
		errs.Add("booking.timezone", err.Error())
	}

	if err := errs.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// BookingRules правила слотов и приема бронирований
func (c *Config) BookingRules() (domain.BookingRules, error) {
	rules := domain.BookingRules{
		WindowStart:   types.TimeString(c.Booking.WindowStart),
		WindowEnd:     types.TimeString(c.Booking.WindowEnd),
		StepMinutes:   c.Booking.StepMinutes,
		BlackoutSlots: c.Booking.BlackoutSlots,
		LeadDays:      c.Booking.LeadDays,
	}
	if err := rules.Validate(); err != nil {
		return domain.BookingRules{}, err
	}
	return rules, nil
}

// Location часовой пояс, в котором считается "сегодня"
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Booking.Timezone)
}

func (r RedisConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLMs) * time.Millisecond
}

func (r RedisConfig) LockTimeout() time.Duration {
	return time.Duration(r.LockTimeoutMs) * time.Millisecond
}

func (r RedisConfig) RetryInterval() time.Duration {
	return time.Duration(r.RetryIntervalMs) * time.Millisecond
}
