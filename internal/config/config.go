package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Backend   BackendConfig   `toml:"backend"`
	Booking   BookingConfig   `toml:"booking"`
	Payment   PaymentConfig   `toml:"payment"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	OperatorIDs     []string `toml:"operator_ids"`
}

// DatabaseConfig настройки базы данных
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BackendConfig настройки клиента бэкенда
type BackendConfig struct {
	URL             string `toml:"url"`
	Timeout         int    `toml:"timeout"`           // секунды
	CatalogCacheTTL int    `toml:"catalog_cache_ttl"` // секунды, 0 - без кэша
}

// BookingConfig расписание мойки и параметры процесса бронирования
type BookingConfig struct {
	OpenTime                string   `toml:"open_time"`
	CloseTime               string   `toml:"close_time"`
	ClosedWeekdays          []string `toml:"closed_weekdays"`
	SlotDurationMinutes     int      `toml:"slot_duration_minutes"`
	Boxes                   int      `toml:"boxes"`
	AdvanceBookingDays      int      `toml:"advance_booking_days"`
	MinBookingNoticeMinutes int      `toml:"min_booking_notice_minutes"`
	TravelFee               string   `toml:"travel_fee"`
	Currency                string   `toml:"currency"`
	SessionTTLMinutes       int      `toml:"session_ttl_minutes"`
	SweepIntervalSeconds    int      `toml:"sweep_interval_seconds"`
}

// PaymentConfig настройки платежного шлюза
type PaymentConfig struct {
	Provider string `toml:"provider"` // пока только "mock"
}

// RateLimitConfig ограничение частоты запросов на клиента
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	MaxClients        int     `toml:"max_clients"`
}

// Load загружает конфигурацию из TOML файла
// Порядок: значения по умолчанию, файл, переменные окружения, валидация
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			Path:            "orderflow.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_orderflow",
		},
		Backend: BackendConfig{
			Timeout:         10,
			CatalogCacheTTL: 60,
		},
		Booking: BookingConfig{
			OpenTime:                domain.DefaultOpenTime,
			CloseTime:               domain.DefaultCloseTime,
			SlotDurationMinutes:     domain.SlotGranularityMinutes,
			Boxes:                   domain.DefaultBoxes,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			TravelFee:               "0",
			Currency:                domain.DefaultCurrency,
			SessionTTLMinutes:       30,
			SweepIntervalSeconds:    60,
		},
		Payment: PaymentConfig{
			Provider: "mock",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			MaxClients:        10000,
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("database.host and database.dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	if c.Backend.URL == "" {
		return errors.New("backend.url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid backend.timeout: %d", c.Backend.Timeout)
	}

	if _, err := c.Booking.Schedule(); err != nil {
		return err
	}
	if _, err := c.Booking.TravelFeeAmount(); err != nil {
		return err
	}
	if c.Booking.SessionTTLMinutes <= 0 {
		return fmt.Errorf("invalid booking.session_ttl_minutes: %d", c.Booking.SessionTTLMinutes)
	}

	if c.Payment.Provider != "mock" {
		return fmt.Errorf("unsupported payment.provider %q", c.Payment.Provider)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate_limit.requests_per_second and rate_limit.burst must be positive")
	}

	return nil
}

// Schedule расписание мойки в доменной модели
func (b BookingConfig) Schedule() (domain.WashSchedule, error) {
	open, err := types.NewTimeStringFromString(b.OpenTime)
	if err != nil {
		return domain.WashSchedule{}, fmt.Errorf("invalid booking.open_time: %w", err)
	}
	closeTime, err := types.NewTimeStringFromString(b.CloseTime)
	if err != nil {
		return domain.WashSchedule{}, fmt.Errorf("invalid booking.close_time: %w", err)
	}
	if !open.IsBefore(closeTime) {
		return domain.WashSchedule{}, fmt.Errorf("booking.open_time %s must be before close_time %s", open, closeTime)
	}

	if b.SlotDurationMinutes <= 0 || b.SlotDurationMinutes%domain.SlotGranularityMinutes != 0 {
		return domain.WashSchedule{}, fmt.Errorf("booking.slot_duration_minutes must be a multiple of %d", domain.SlotGranularityMinutes)
	}
	if b.Boxes < domain.MinBoxes || b.Boxes > domain.MaxBoxes {
		return domain.WashSchedule{}, fmt.Errorf("booking.boxes must be between %d and %d", domain.MinBoxes, domain.MaxBoxes)
	}
	if b.AdvanceBookingDays < 0 || b.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return domain.WashSchedule{}, fmt.Errorf("booking.advance_booking_days must be between 0 and %d", domain.MaxAdvanceBookingDays)
	}
	if b.MinBookingNoticeMinutes < 0 {
		return domain.WashSchedule{}, errors.New("booking.min_booking_notice_minutes must not be negative")
	}

	closed := make([]time.Weekday, 0, len(b.ClosedWeekdays))
	for _, name := range b.ClosedWeekdays {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return domain.WashSchedule{}, fmt.Errorf("invalid booking.closed_weekdays entry %q", name)
		}
		closed = append(closed, day)
	}

	return domain.WashSchedule{
		OpenTime:                open,
		CloseTime:               closeTime,
		ClosedWeekdays:          closed,
		SlotDurationMinutes:     b.SlotDurationMinutes,
		Boxes:                   b.Boxes,
		AdvanceBookingDays:      b.AdvanceBookingDays,
		MinBookingNoticeMinutes: b.MinBookingNoticeMinutes,
	}, nil
}

// TravelFeeAmount стоимость выезда
func (b BookingConfig) TravelFeeAmount() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(b.TravelFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid booking.travel_fee %q: %w", b.TravelFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("booking.travel_fee must not be negative")
	}
	return fee, nil
}

// SessionTTL время жизни неактивной сессии
func (b BookingConfig) SessionTTL() time.Duration {
	return time.Duration(b.SessionTTLMinutes) * time.Minute
}

// SweepInterval период очистки сессий
func (b BookingConfig) SweepInterval() time.Duration {
	if b.SweepIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(b.SweepIntervalSeconds) * time.Second
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
