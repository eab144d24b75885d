// Package config loads process configuration from the environment through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	pkgstrings "fleetops/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	AuthEnabled   bool
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	LogLevel      string
	LogFormat     string
}

// RedisConfig configures the alert ledger connection. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit relay. No brokers disables it.
type KafkaConfig struct {
	Brokers        []string
	AuditTopic     string
	OutboxInterval time.Duration
}

// Compliance holds the regulation parameters that are deployment-tunable.
type Compliance struct {
	Timezone              string
	WeekAnchor            string // "calendar" or "range"
	WeeklyRestRegularHrs  float64
	WeeklyRestReducedHrs  float64
	AlertDedupTTL         time.Duration
	FleetReportConcurrent int
}

type Config struct {
	Server      Server
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Compliance  Compliance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("FLEETOPS_ADDR", ":8080")
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("JWT_SIGNING_KEY", "dev-secret-key-change-in-production")
	v.SetDefault("JWT_ISSUER", "fleetops")
	v.SetDefault("JWT_AUDIENCE", "fleetops-api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATABASE_URL", "")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUDIT_TOPIC", "fleetops.audit")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 2*time.Second)

	v.SetDefault("COMPLIANCE_TIMEZONE", "UTC")
	v.SetDefault("COMPLIANCE_WEEK_ANCHOR", "calendar")
	v.SetDefault("WEEKLY_REST_REGULAR_HOURS", 45.0)
	v.SetDefault("WEEKLY_REST_REDUCED_HOURS", 24.0)
	v.SetDefault("ALERT_DEDUP_TTL", time.Hour)
	v.SetDefault("FLEET_REPORT_CONCURRENCY", 8)
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Server: Server{
			Addr:          v.GetString("FLEETOPS_ADDR"),
			AuthEnabled:   v.GetBool("AUTH_ENABLED"),
			JWTSigningKey: v.GetString("JWT_SIGNING_KEY"),
			JWTIssuer:     v.GetString("JWT_ISSUER"),
			JWTAudience:   v.GetString("JWT_AUDIENCE"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			LogFormat:     v.GetString("LOG_FORMAT"),
		},
		DatabaseURL: v.GetString("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers:        pkgstrings.SplitList(v.GetString("KAFKA_BROKERS")),
			AuditTopic:     v.GetString("AUDIT_TOPIC"),
			OutboxInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		},
		Compliance: Compliance{
			Timezone:              v.GetString("COMPLIANCE_TIMEZONE"),
			WeekAnchor:            strings.ToLower(v.GetString("COMPLIANCE_WEEK_ANCHOR")),
			WeeklyRestRegularHrs:  v.GetFloat64("WEEKLY_REST_REGULAR_HOURS"),
			WeeklyRestReducedHrs:  v.GetFloat64("WEEKLY_REST_REDUCED_HOURS"),
			AlertDedupTTL:         v.GetDuration("ALERT_DEDUP_TTL"),
			FleetReportConcurrent: v.GetInt("FLEET_REPORT_CONCURRENCY"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := time.LoadLocation(c.Compliance.Timezone); err != nil {
		return fmt.Errorf("COMPLIANCE_TIMEZONE: %w", err)
	}
	switch c.Compliance.WeekAnchor {
	case "calendar", "range":
	default:
		return fmt.Errorf("COMPLIANCE_WEEK_ANCHOR must be calendar or range, got %q", c.Compliance.WeekAnchor)
	}
	if c.Compliance.WeeklyRestReducedHrs <= 0 || c.Compliance.WeeklyRestReducedHrs > c.Compliance.WeeklyRestRegularHrs {
		return fmt.Errorf("weekly rest thresholds invalid: reduced %.1fh regular %.1fh",
			c.Compliance.WeeklyRestReducedHrs, c.Compliance.WeeklyRestRegularHrs)
	}
	if c.Compliance.FleetReportConcurrent < 1 {
		return fmt.Errorf("FLEET_REPORT_CONCURRENCY must be positive")
	}
	if c.Server.AuthEnabled && c.Server.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required when AUTH_ENABLED")
	}
	return nil
}

// Location resolves the configured compliance timezone. Load has already
// validated it.
func (c Compliance) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
