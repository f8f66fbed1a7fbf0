package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/gcp"
	"github.com/yungbote/coursehub-backend/internal/platform/gemini"
	"github.com/yungbote/coursehub-backend/internal/platform/redisx"
)

type Config struct {
	Port            string
	LogMode         string
	ShutdownTimeout time.Duration

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
	CookieSecure   bool

	Redis redisx.Config

	GeminiAPIKey string
	GeminiModel  string

	Storage gcp.BucketConfig

	ChatRateLimitPerMinute int
	AuthRateLimitPerMinute int

	AllowedOrigins []string
	MetricsEnabled bool
	Otel           observability.OtelConfig
}

var configKeys = []string{
	"PORT", "LOG_MODE", "SHUTDOWN_TIMEOUT",
	"DB_DRIVER", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_NAME", "POSTGRES_SSLMODE",
	"SQLITE_PATH", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "SESSION_TTL", "COOKIE_SECURE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY", "GEMINI_MODEL",
	"OBJECT_STORAGE_MODE", "COVER_GCS_BUCKET_NAME", "COVER_CDN_DOMAIN", "STORAGE_EMULATOR_HOST", "OBJECT_STORAGE_PUBLIC_BASE_URL",
	"RATE_LIMIT_CHAT_PER_MINUTE", "RATE_LIMIT_AUTH_PER_MINUTE",
	"CORS_ALLOWED_ORIGINS", "METRICS_ENABLED",
	"OTEL_ENABLED", "OTEL_SERVICE_NAME", "OTEL_ENVIRONMENT", "OTEL_SERVICE_VERSION",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLE_RATIO",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "coursehub.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("ACCESS_TOKEN_TTL", "1h")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("GEMINI_MODEL", gemini.DefaultModel)
	v.SetDefault("OBJECT_STORAGE_MODE", string(gcp.ObjectStorageModeDisabled))
	v.SetDefault("RATE_LIMIT_CHAT_PER_MINUTE", 20)
	v.SetDefault("RATE_LIMIT_AUTH_PER_MINUTE", 30)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("OTEL_SERVICE_NAME", "coursehub-backend")
	v.SetDefault("OTEL_ENVIRONMENT", "development")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

// LoadConfig reads app.env from path when present and lets the environment
// override every key.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if strings.TrimSpace(path) != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read app.env: %w", err)
		}
	}
	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (Config, error) {
	mode, err := gcp.ParseObjectStorageMode(v.GetString("OBJECT_STORAGE_MODE"))
	if err != nil {
		return Config{}, err
	}
	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	if driver != db.DriverPostgres && driver != db.DriverSQLite {
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (want postgres or sqlite)", driver)
	}

	apiKey := strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(v.GetString("GOOGLE_GENERATIVE_AI_API_KEY"))
	}

	cfg := Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		LogMode:         v.GetString("LOG_MODE"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		DB: db.Config{
			Driver:           driver,
			PostgresHost:     v.GetString("POSTGRES_HOST"),
			PostgresPort:     v.GetString("POSTGRES_PORT"),
			PostgresUser:     v.GetString("POSTGRES_USER"),
			PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
			PostgresName:     v.GetString("POSTGRES_NAME"),
			PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),
			SQLitePath:       v.GetString("SQLITE_PATH"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWTSecretKey:   v.GetString("JWT_SECRET_KEY"),
		AccessTokenTTL: v.GetDuration("ACCESS_TOKEN_TTL"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		Redis: redisx.Config{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GeminiAPIKey: apiKey,
		GeminiModel:  strings.TrimSpace(v.GetString("GEMINI_MODEL")),
		Storage: gcp.BucketConfig{
			Mode:          mode,
			Bucket:        strings.TrimSpace(v.GetString("COVER_GCS_BUCKET_NAME")),
			CDNDomain:     strings.TrimSpace(v.GetString("COVER_CDN_DOMAIN")),
			EmulatorHost:  strings.TrimSpace(v.GetString("STORAGE_EMULATOR_HOST")),
			PublicBaseURL: strings.TrimSpace(v.GetString("OBJECT_STORAGE_PUBLIC_BASE_URL")),
		},
		ChatRateLimitPerMinute: v.GetInt("RATE_LIMIT_CHAT_PER_MINUTE"),
		AuthRateLimitPerMinute: v.GetInt("RATE_LIMIT_AUTH_PER_MINUTE"),
		AllowedOrigins:         splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:         v.GetBool("METRICS_ENABLED"),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
			Version:     v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
