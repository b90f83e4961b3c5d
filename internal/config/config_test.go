package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv() {
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"KAFKA_BROKERS",
		"MAIL_SENDER_NAME", "MAIL_SENDER_EMAIL", "MAIL_SERVER", "MAIL_PORT",
		"OTP_DEFAULT_TTL", "OTP_MAX_ATTEMPTS", "OTP_LOCKOUT",
		"DISPATCH_WORKERS", "DISPATCH_POLL_INTERVAL", "DISPATCH_BATCH_SIZE",
		"DISPATCH_MAX_ATTEMPTS", "DISPATCH_RETRY_DELAY", "DISPATCH_VISIBILITY_TIMEOUT",
		"ARTIFACTS_BASE_DIR", "ARTIFACTS_BASE_URL",
		"JWT_SECRET",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}
	if cfg.Server.Port != 6001 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 6001)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}

	if cfg.OTP.DefaultTTL != 2*time.Minute {
		t.Errorf("OTP.DefaultTTL = %v, want 2m", cfg.OTP.DefaultTTL)
	}
	if cfg.OTP.MaxAttempts != 5 {
		t.Errorf("OTP.MaxAttempts = %d, want 5", cfg.OTP.MaxAttempts)
	}

	if cfg.Dispatch.Workers != 4 {
		t.Errorf("Dispatch.Workers = %d, want 4", cfg.Dispatch.Workers)
	}
	if cfg.Dispatch.MaxAttempts != 3 {
		t.Errorf("Dispatch.MaxAttempts = %d, want 3", cfg.Dispatch.MaxAttempts)
	}
	if cfg.Dispatch.RetryDelay != 5*time.Second {
		t.Errorf("Dispatch.RetryDelay = %v, want 5s", cfg.Dispatch.RetryDelay)
	}
	if cfg.Dispatch.VisibilityTimeout != 5*time.Minute {
		t.Errorf("Dispatch.VisibilityTimeout = %v, want 5m", cfg.Dispatch.VisibilityTimeout)
	}

	if cfg.Mail.Server != "smtp.gmail.com" {
		t.Errorf("Mail.Server = %q, want %q", cfg.Mail.Server, "smtp.gmail.com")
	}
	if cfg.Mail.Port != 587 {
		t.Errorf("Mail.Port = %d, want %d", cfg.Mail.Port, 587)
	}

	if cfg.Artifacts.BaseDir != "static" {
		t.Errorf("Artifacts.BaseDir = %q, want %q", cfg.Artifacts.BaseDir, "static")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv()
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("OTP_DEFAULT_TTL", "10m")
	os.Setenv("DISPATCH_WORKERS", "8")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.OTP.DefaultTTL != 10*time.Minute {
		t.Errorf("OTP.DefaultTTL = %v, want 10m", cfg.OTP.DefaultTTL)
	}
	if cfg.Dispatch.Workers != 8 {
		t.Errorf("Dispatch.Workers = %d, want 8", cfg.Dispatch.Workers)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	clearEnv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	dsn := cfg.Database.DSN()
	if dsn == "" {
		t.Fatal("DSN() should not be empty")
	}
}

func TestKafkaConfig_Enabled(t *testing.T) {
	clearEnv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka should be disabled without brokers")
	}

	os.Setenv("KAFKA_BROKERS", "localhost:9092")
	defer clearEnv()
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Kafka.Enabled() {
		t.Error("Kafka should be enabled with brokers set")
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	clearEnv()
	os.Setenv("SERVER_PORT", "-1")
	defer clearEnv()

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a negative port")
	}
}
