package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config структура конфигурации приложения
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Restriction RestrictionConfig `mapstructure:"restriction"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	HTTPPort    int           `mapstructure:"http_port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Environment string        `mapstructure:"environment"`
}

// DatabaseConfig конфигурация PostgreSQL
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	Database   int    `mapstructure:"database"`
	MaxRetries int    `mapstructure:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size"`
}

// NATSConfig конфигурация NATS
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ClientID       string        `mapstructure:"client_id"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnect   int           `mapstructure:"max_reconnect"`
}

// LoggerConfig конфигурация логгера
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// AuthConfig конфигурация аутентификации
type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// MetricsConfig конфигурация метрик
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig настройки ограничения частоты запросов
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RestrictionConfig политика ограничения циркуляции. Город и его
// квалификаторы задаются конфигурацией: новая юрисдикция не требует
// изменения кода.
type RestrictionConfig struct {
	City          string   `mapstructure:"city"`
	State         string   `mapstructure:"state"`
	CityAliases   []string `mapstructure:"city_aliases"`
	SuppressTerms []string `mapstructure:"suppress_terms"`
}

// LoadConfig загружает конфигурацию из переменных окружения и файлов
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("FLEET_SERVICE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Файл конфигурации не найден, используем переменные окружения и значения по умолчанию
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults() {
	// Server
	viper.SetDefault("server.http_port", 8002)
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("server.environment", "development")

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.database", "fleet_service")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 25)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)

	// NATS
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.client_id", "fleet-service")
	viper.SetDefault("nats.connect_timeout", "30s")
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.max_reconnect", -1)

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth
	viper.SetDefault("auth.secret", "change-me-in-production")
	viper.SetDefault("auth.token_ttl", "12h")

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	// Rate limiting
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// Restriction policy
	viper.SetDefault("restriction.city", "sao paulo")
	viper.SetDefault("restriction.state", "SP")
	viper.SetDefault("restriction.city_aliases", []string{
		"sao paulo", "sp capital", "capital paulista", "cidade de sao paulo",
	})
	viper.SetDefault("restriction.suppress_terms", []string{
		"interior", "estado de", "estado do", "litoral",
	})
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// GetRedisAddr возвращает адрес Redis
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("NATS URL is required")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}

	return nil
}
