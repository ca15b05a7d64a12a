package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к основной БД
	Storage  StorageConfig  // Настройки резервного файлового хранилища
	Log      LogConfig      // Настройки логирования
	Metrics  MetricsConfig  // Настройки Prometheus метрик
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к основной БД.
// Пустой URL означает работу только с файлами, без попыток подключения.
type DatabaseConfig struct {
	URL            string        `envconfig:"DATABASE_URL"`
	Name           string        `envconfig:"DB_NAME" default:"sponsortrack"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"3s"`
	RetryInterval  time.Duration `envconfig:"DB_RETRY_INTERVAL" default:"5s"`
	CheckInterval  time.Duration `envconfig:"DB_CHECK_INTERVAL" default:"15s"`
	MaxConns       int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns       int32         `envconfig:"DB_MIN_CONNS" default:"0"`
}

// Driver определяет драйвер основной БД по схеме URL
type Driver string

// Поддерживаемые драйверы
const (
	DriverNone     Driver = ""
	DriverMongo    Driver = "mongodb"
	DriverPostgres Driver = "postgres"
)

// Driver возвращает драйвер для URL или ошибку для неизвестной схемы
func (d DatabaseConfig) Driver() (Driver, error) {
	url := strings.TrimSpace(d.URL)
	switch {
	case url == "":
		return DriverNone, nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, nil
	default:
		return DriverNone, fmt.Errorf("unsupported DATABASE_URL scheme")
	}
}

// StorageConfig содержит настройки файлового хранилища
type StorageConfig struct {
	DataDir string `envconfig:"DATA_DIR" default:"./data"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// SlogLevel переводит LOG_LEVEL в slog.Level, неизвестные значения дают info
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MetricsConfig содержит настройки метрик
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := cfg.Database.Driver(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
