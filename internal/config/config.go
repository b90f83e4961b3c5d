package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Mail      MailConfig
	OTP       OTPConfig
	Dispatch  DispatchConfig
	Artifacts ArtifactsConfig
	JWT       JWTConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka connection settings for lifecycle events.
// An empty broker list disables event publishing.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// Enabled reports whether event publishing is configured
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Brokers[0] != ""
}

// MailConfig holds the process-wide default sender used when a tenant has
// no complete mail configuration of its own
type MailConfig struct {
	SenderName     string
	SenderEmail    string
	SenderPassword string
	Server         string
	Port           int
	UseTLS         bool
}

// ToDomain converts the default sender to its domain form
func (m MailConfig) ToDomain() domain.MailConfig {
	return domain.MailConfig{
		SenderName:     m.SenderName,
		SenderEmail:    m.SenderEmail,
		SenderPassword: m.SenderPassword,
		Server:         m.Server,
		Port:           m.Port,
		UseTLS:         m.UseTLS,
	}
}

// OTPConfig holds pickup verification settings
type OTPConfig struct {
	DefaultTTL  time.Duration
	MaxAttempts int
	Lockout     time.Duration
}

// DispatchConfig holds outbound notification settings
type DispatchConfig struct {
	Workers           int
	PollInterval      time.Duration
	BatchSize         int
	MaxAttempts       int
	RetryDelay        time.Duration
	VisibilityTimeout time.Duration
}

// ArtifactsConfig holds artifact storage settings
type ArtifactsConfig struct {
	BaseDir string
	BaseURL string
}

// JWTConfig holds token validation settings
type JWTConfig struct {
	Secret string
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, env vars alone are fine
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "challan-service")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 6001)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "challan")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	// Kafka defaults (disabled unless brokers are set)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "challan-events")
	v.SetDefault("KAFKA_CLIENT_ID", "challan-service")

	// Mail defaults: the global fallback sender
	v.SetDefault("MAIL_SENDER_NAME", "Service Center")
	v.SetDefault("MAIL_SENDER_EMAIL", "")
	v.SetDefault("MAIL_SENDER_PASSWORD", "")
	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USE_TLS", true)

	// OTP defaults
	v.SetDefault("OTP_DEFAULT_TTL", "2m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_LOCKOUT", "15m")

	// Dispatch defaults
	v.SetDefault("DISPATCH_WORKERS", 4)
	v.SetDefault("DISPATCH_POLL_INTERVAL", "2s")
	v.SetDefault("DISPATCH_BATCH_SIZE", 20)
	v.SetDefault("DISPATCH_MAX_ATTEMPTS", 3)
	v.SetDefault("DISPATCH_RETRY_DELAY", "5s")
	v.SetDefault("DISPATCH_VISIBILITY_TIMEOUT", "5m")

	// Artifacts defaults
	v.SetDefault("ARTIFACTS_BASE_DIR", "static")
	v.SetDefault("ARTIFACTS_BASE_URL", "http://127.0.0.1:6001")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Database
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	// Kafka
	brokersStr := v.GetString("KAFKA_BROKERS")
	if brokersStr == "" {
		cfg.Kafka.Brokers = nil
	} else {
		cfg.Kafka.Brokers = strings.Split(brokersStr, ",")
	}
	cfg.Kafka.Topic = v.GetString("KAFKA_TOPIC")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")

	// Mail
	cfg.Mail.SenderName = v.GetString("MAIL_SENDER_NAME")
	cfg.Mail.SenderEmail = v.GetString("MAIL_SENDER_EMAIL")
	cfg.Mail.SenderPassword = v.GetString("MAIL_SENDER_PASSWORD")
	cfg.Mail.Server = v.GetString("MAIL_SERVER")
	cfg.Mail.Port = v.GetInt("MAIL_PORT")
	cfg.Mail.UseTLS = v.GetBool("MAIL_USE_TLS")

	// OTP
	cfg.OTP.DefaultTTL = v.GetDuration("OTP_DEFAULT_TTL")
	cfg.OTP.MaxAttempts = v.GetInt("OTP_MAX_ATTEMPTS")
	cfg.OTP.Lockout = v.GetDuration("OTP_LOCKOUT")

	// Dispatch
	cfg.Dispatch.Workers = v.GetInt("DISPATCH_WORKERS")
	cfg.Dispatch.PollInterval = v.GetDuration("DISPATCH_POLL_INTERVAL")
	cfg.Dispatch.BatchSize = v.GetInt("DISPATCH_BATCH_SIZE")
	cfg.Dispatch.MaxAttempts = v.GetInt("DISPATCH_MAX_ATTEMPTS")
	cfg.Dispatch.RetryDelay = v.GetDuration("DISPATCH_RETRY_DELAY")
	cfg.Dispatch.VisibilityTimeout = v.GetDuration("DISPATCH_VISIBILITY_TIMEOUT")

	// Artifacts
	cfg.Artifacts.BaseDir = v.GetString("ARTIFACTS_BASE_DIR")
	cfg.Artifacts.BaseURL = v.GetString("ARTIFACTS_BASE_URL")

	// JWT
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.App.Environment == "production" && c.JWT.Secret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.Dispatch.Workers <= 0 {
		return fmt.Errorf("dispatch workers must be positive")
	}

	if c.Dispatch.MaxAttempts <= 0 {
		return fmt.Errorf("dispatch max attempts must be positive")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
