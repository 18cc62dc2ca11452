package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	HRMS     HRMSConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Console  ConsoleConfig
	Sync     SyncConfig
	Audit    AuditConfig
}

// HRMSConfig points the console at the HRMS REST backend.
type HRMSConfig struct {
	BaseURL string
	// Timeout of zero disables the client timeout.
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ConsoleConfig tunes per-session state kept for the schedule console.
type ConsoleConfig struct {
	SessionTTL      time.Duration
	DraftTTL        time.Duration
	DefaultPageSize int
}

// SyncConfig controls the background sync-existing runner.
type SyncConfig struct {
	AutoInterval time.Duration
	Workers      int
	Retries      int
	RetryDelay   time.Duration
}

// AuditConfig toggles the Postgres audit trail of console mutations.
type AuditConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.HRMS = HRMSConfig{
		BaseURL: strings.TrimRight(v.GetString("HRMS_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HRMS_TIMEOUT"), 0),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	pageSize := v.GetInt("CONSOLE_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Console = ConsoleConfig{
		SessionTTL:      parseDuration(v.GetString("CONSOLE_SESSION_TTL"), 8*time.Hour),
		DraftTTL:        parseDuration(v.GetString("CONSOLE_DRAFT_TTL"), 30*time.Minute),
		DefaultPageSize: pageSize,
	}

	cfg.Sync = SyncConfig{
		AutoInterval: parseDuration(v.GetString("AUTO_SYNC_INTERVAL"), 0),
		Workers:      v.GetInt("SYNC_WORKERS"),
		Retries:      v.GetInt("SYNC_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("SYNC_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("HRMS_BASE_URL", "http://localhost:3000")
	v.SetDefault("HRMS_TIMEOUT", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sis_console")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CONSOLE_SESSION_TTL", "8h")
	v.SetDefault("CONSOLE_DRAFT_TTL", "30m")
	v.SetDefault("CONSOLE_PAGE_SIZE", 10)

	v.SetDefault("AUTO_SYNC_INTERVAL", "")
	v.SetDefault("SYNC_WORKERS", 1)
	v.SetDefault("SYNC_RETRIES", 3)
	v.SetDefault("SYNC_RETRY_DELAY", "5s")

	v.SetDefault("ENABLE_AUDIT", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
