package app

import (
	"strings"
	"time"

	"github.com/yungbote/qualiopi-backend/internal/data/db"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/envutil"
	"github.com/yungbote/qualiopi-backend/internal/temporalx"
)

type Config struct {
	LogMode  string
	HTTPAddr string

	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string

	JWTSecretKey string
	CORSOrigins  []string

	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	RedisNotificationChannel string

	Temporal temporalx.Config
	Otel     observability.OtelConfig

	MetricsEnabled bool
	MetricsAddr    string
	MetricsScrape  time.Duration

	ScoringPolicyPath string

	BatchSignBaseTimeout   time.Duration
	BatchSignPerApprentice time.Duration
	GovernanceConcurrency  int
}

func LoadConfig() Config {
	return Config{
		LogMode:  envutil.String("LOG_MODE", "development"),
		HTTPAddr: envutil.String("HTTP_ADDR", ":8080"),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "qualiopi"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},
		SQLitePath: envutil.String("SQLITE_PATH", "qualiopi.db"),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		RedisAddr:                envutil.String("REDIS_ADDR", ""),
		RedisPassword:            envutil.String("REDIS_PASSWORD", ""),
		RedisDB:                  envutil.Int("REDIS_DB", 0),
		RedisNotificationChannel: envutil.String("REDIS_NOTIFICATION_CHANNEL", "qualiopi.notifications"),

		Temporal: temporalx.LoadConfig(),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "qualiopi-backend"),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 10)) / 100,
		},

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		MetricsAddr:    envutil.String("METRICS_ADDR", ""),
		MetricsScrape:  envutil.Seconds("METRICS_SCRAPE_SECONDS", 10*time.Second),

		ScoringPolicyPath: envutil.String("SCORING_POLICY_PATH", ""),

		BatchSignBaseTimeout:   envutil.Seconds("BATCH_SIGN_BASE_TIMEOUT_SECONDS", 15*time.Second),
		BatchSignPerApprentice: envutil.Seconds("BATCH_SIGN_PER_APPRENTICE_SECONDS", time.Second),
		GovernanceConcurrency:  envutil.Int("GOVERNANCE_CONCURRENCY", 8),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
