package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Session backends
const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Logs                LogsConfig                `toml:"logs"`
	Database            DatabaseConfig            `toml:"database"`
	Redis               RedisConfig               `toml:"redis"`
	Metrics             MetricsConfig             `toml:"metrics"`
	Sessions            SessionsConfig            `toml:"sessions"`
	Studio              StudioConfig              `toml:"studio"`
	AvailabilityService AvailabilityServiceConfig `toml:"availability_service"`
	BookingGateway      BookingGatewayConfig      `toml:"booking_gateway"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int           `toml:"http_port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // Пустая строка = только stdout
	Level string `toml:"level"` // debug, info, warn, error
}

// DatabaseConfig настройки postgres (используется при sessions.backend = "postgres")
type DatabaseConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	User            string        `toml:"user"`
	Password        string        `toml:"password"`
	DBName          string        `toml:"dbname"`
	SSLMode         string        `toml:"sslmode"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки redis (используется при sessions.backend = "redis")
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SessionsConfig настройки хранения сессий мастера бронирования
type SessionsConfig struct {
	Backend         string        `toml:"backend"` // memory, postgres, redis
	TTL             time.Duration `toml:"ttl"`
	CleanupInterval time.Duration `toml:"cleanup_interval"`
}

// StudioConfig правила студии и каталог услуг
type StudioConfig struct {
	OpenTime                string          `toml:"open_time"`
	CloseTime               string          `toml:"close_time"`
	MaxMultiSlots           int             `toml:"max_multi_slots"`
	AdvanceBookingDays      int             `toml:"advance_booking_days"`
	MinBookingNoticeMinutes int             `toml:"min_booking_notice_minutes"`
	Services                []ServiceConfig `toml:"services"`
}

// ServiceConfig услуга студии, цены в центах
type ServiceConfig struct {
	ID                int64  `toml:"id"`
	Name              string `toml:"name"`
	Description       string `toml:"description"`
	HourlyPriceCents  int64  `toml:"hourly_price_cents"`
	FullDayPriceCents *int64 `toml:"full_day_price_cents"`
}

// AvailabilityServiceConfig внешний источник занятости слотов
type AvailabilityServiceConfig struct {
	URL     string        `toml:"url"` // Пустой URL = все слоты заняты
	Timeout time.Duration `toml:"timeout"`
}

// BookingGatewayConfig внешний шлюз бронирования и оплаты
type BookingGatewayConfig struct {
	URL       string        `toml:"url"`
	Timeout   time.Duration `toml:"timeout"`
	AllowFake bool          `toml:"allow_fake"` // Без URL подтверждать все брони локально
}

// Rules возвращает правила мастера бронирования
func (c StudioConfig) Rules() domain.Rules {
	return domain.Rules{
		Window: domain.OperatingWindow{
			Open:  normalizeTime(c.OpenTime),
			Close: normalizeTime(c.CloseTime),
		},
		MaxMultiSlots: c.MaxMultiSlots,
	}
}

// normalizeTime приводит "9:00" к "09:00": слоты сравниваются как строки.
// "24:00" и некорректные значения возвращаются как есть, их проверяет валидация окна.
func normalizeTime(s string) types.TimeString {
	s = strings.TrimSpace(s)
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return types.TimeString(s)
	}
	return t
}

// DomainServices возвращает каталог услуг
func (c StudioConfig) DomainServices() []domain.Service {
	services := make([]domain.Service, 0, len(c.Services))
	for _, s := range c.Services {
		svc := domain.Service{
			ID:               s.ID,
			Name:             s.Name,
			Description:      s.Description,
			HourlyPriceCents: s.HourlyPriceCents,
		}
		if s.FullDayPriceCents != nil {
			price := *s.FullDayPriceCents
			svc.FullDayPriceCents = &price
		}
		services = append(services, svc)
	}
	return services
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переменные окружения и проверяет результат.
// Пустой path означает конфигурацию только из значений по умолчанию и окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if len(cfg.Studio.Services) == 0 {
		cfg.Studio.Services = DefaultServices()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Studio.OpenTime = normalizeTime(cfg.Studio.OpenTime).String()
	cfg.Studio.CloseTime = normalizeTime(cfg.Studio.CloseTime).String()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию (без каталога услуг)
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "studio_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "studio:session:",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "studio-booking",
		},
		Sessions: SessionsConfig{
			Backend:         SessionBackendMemory,
			TTL:             domain.DefaultSessionTTLMinutes * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Studio: StudioConfig{
			OpenTime:                domain.DefaultOpenTime,
			CloseTime:               domain.DefaultCloseTime,
			MaxMultiSlots:           domain.DefaultMaxMultiSlots,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		},
		AvailabilityService: AvailabilityServiceConfig{
			Timeout: 3 * time.Second,
		},
		BookingGateway: BookingGatewayConfig{
			Timeout: 15 * time.Second,
		},
	}
}

// DefaultServices каталог студии по умолчанию
func DefaultServices() []ServiceConfig {
	mixingFullDay := int64(40000)
	return []ServiceConfig{
		{
			ID:               1,
			Name:             "Recording",
			Description:      "Tracking session in the live room with an engineer",
			HourlyPriceCents: 7500,
		},
		{
			ID:                2,
			Name:              "Mixing",
			Description:       "Mixing session in the control room",
			HourlyPriceCents:  6000,
			FullDayPriceCents: &mixingFullDay,
		},
		{
			ID:               3,
			Name:             "Rehearsal",
			Description:      "Rehearsal room with backline",
			HourlyPriceCents: 4500,
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("STUDIO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("STUDIO_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: STUDIO_HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		cfg.Server.HTTPPort = port
	}
	if v := os.Getenv("STUDIO_SESSION_BACKEND"); v != "" {
		cfg.Sessions.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STUDIO_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("STUDIO_GATEWAY_URL"); v != "" {
		cfg.BookingGateway.URL = v
	}
	if v := os.Getenv("STUDIO_AVAILABILITY_URL"); v != "" {
		cfg.AvailabilityService.URL = v
	}
	return nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be between 1 and 65535", ErrInvalidConfig)
	}

	switch c.Sessions.Backend {
	case SessionBackendMemory, SessionBackendPostgres, SessionBackendRedis:
	default:
		return fmt.Errorf("%w: sessions.backend must be memory, postgres or redis, got %q", ErrInvalidConfig, c.Sessions.Backend)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("%w: sessions.ttl must be positive", ErrInvalidConfig)
	}
	if c.Sessions.Backend == SessionBackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required for the redis session backend", ErrInvalidConfig)
	}

	if err := c.Studio.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: studio: %v", ErrInvalidConfig, err)
	}
	if c.Studio.AdvanceBookingDays < 0 || c.Studio.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: studio.advance_booking_days must be between 0 and %d", ErrInvalidConfig, domain.MaxAdvanceBookingDays)
	}
	if c.Studio.MinBookingNoticeMinutes < 0 || c.Studio.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: studio.min_booking_notice_minutes must be between 0 and %d", ErrInvalidConfig, domain.MaxBookingNoticeMinutes)
	}

	seen := make(map[int64]bool, len(c.Studio.Services))
	for _, s := range c.Studio.Services {
		if s.ID <= 0 || strings.TrimSpace(s.Name) == "" || s.HourlyPriceCents <= 0 {
			return fmt.Errorf("%w: studio.services: id, name and hourly_price_cents are required", ErrInvalidConfig)
		}
		if s.FullDayPriceCents != nil && *s.FullDayPriceCents <= 0 {
			return fmt.Errorf("%w: studio.services id=%d: full_day_price_cents must be positive", ErrInvalidConfig, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: studio.services: duplicate id=%d", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = true
	}

	if c.BookingGateway.URL == "" && !c.BookingGateway.AllowFake {
		return fmt.Errorf("%w: booking_gateway.url is required unless booking_gateway.allow_fake is set", ErrInvalidConfig)
	}
	if c.BookingGateway.Timeout <= 0 || c.AvailabilityService.Timeout <= 0 {
		return fmt.Errorf("%w: integration timeouts must be positive", ErrInvalidConfig)
	}

	return nil
}
