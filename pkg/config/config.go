package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata" // deadline zones must resolve in minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Notification drivers understood by the mailer factory.
const (
	NotifyDriverLog      = "log"
	NotifyDriverSendgrid = "sendgrid"
	NotifyDriverKafka    = "kafka"
)

type Config struct {
	Env        string
	Port       int
	APIPrefix  string
	EnableDocs bool

	Database      DatabaseConfig
	Redis         RedisConfig
	Session       SessionConfig
	CORS          CORSConfig
	Log           LogConfig
	Deadline      DeadlineConfig
	Extensions    ExtensionConfig
	Notifications NotificationConfig
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
	Host           string
	Port           int
	Password       string
	DB             int
	CourseCache    bool
	CourseCacheTTL time.Duration
}

// SessionConfig describes how tokens minted by the identity provider are verified.
type SessionConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DeadlineConfig controls submission window evaluation.
type DeadlineConfig struct {
	Timezone string
	LeadDays int

	location *time.Location
}

// Location returns the loaded civil zone, falling back to UTC when Load was bypassed.
func (d DeadlineConfig) Location() *time.Location {
	if d.location == nil {
		return time.UTC
	}
	return d.location
}

// ExtensionConfig governs the expired extension sweep.
type ExtensionConfig struct {
	SweepInterval time.Duration
	CronToken     string
}

// NotificationConfig selects and tunes the outbound notification sink.
type NotificationConfig struct {
	Driver         string
	FromEmail      string
	FromName       string
	TTDEmail       string
	SendgridAPIKey string
	KafkaBrokers   []string
	KafkaTopic     string
	Workers        int
	Retries        int
	BufferSize     int
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
	cfg.EnableDocs = v.GetBool("ENABLE_DOCS")

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
		Host:           v.GetString("REDIS_HOST"),
		Port:           v.GetInt("REDIS_PORT"),
		Password:       v.GetString("REDIS_PASSWORD"),
		DB:             v.GetInt("REDIS_DB"),
		CourseCache:    v.GetBool("ENABLE_COURSE_CACHE"),
		CourseCacheTTL: parseDuration(v.GetString("COURSE_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Session = SessionConfig{
		Secret: v.GetString("SESSION_JWT_SECRET"),
		Issuer: v.GetString("SESSION_JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Deadline = DeadlineConfig{
		Timezone: v.GetString("DEADLINE_TIMEZONE"),
		LeadDays: v.GetInt("DEADLINE_LEAD_DAYS"),
	}
	loc, err := time.LoadLocation(cfg.Deadline.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load deadline timezone %q: %w", cfg.Deadline.Timezone, err)
	}
	cfg.Deadline.location = loc
	if cfg.Deadline.LeadDays < 0 {
		cfg.Deadline.LeadDays = 0
	}

	cfg.Extensions = ExtensionConfig{
		SweepInterval: parseDuration(v.GetString("EXTENSION_SWEEP_INTERVAL"), 5*time.Minute),
		CronToken:     v.GetString("CRON_TOKEN"),
	}

	cfg.Notifications = NotificationConfig{
		Driver:         strings.ToLower(v.GetString("NOTIFY_DRIVER")),
		FromEmail:      v.GetString("NOTIFY_FROM_EMAIL"),
		FromName:       v.GetString("NOTIFY_FROM_NAME"),
		TTDEmail:       v.GetString("TTD_EMAIL"),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		KafkaBrokers:   splitAndTrim(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:     v.GetString("KAFKA_NOTIFY_TOPIC"),
		Workers:        v.GetInt("NOTIFY_WORKERS"),
		Retries:        v.GetInt("NOTIFY_RETRIES"),
		BufferSize:     v.GetInt("NOTIFY_BUFFER"),
	}
	switch cfg.Notifications.Driver {
	case NotifyDriverLog, NotifyDriverSendgrid, NotifyDriverKafka:
	default:
		return nil, fmt.Errorf("unsupported NOTIFY_DRIVER %q", cfg.Notifications.Driver)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("ENABLE_DOCS", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "id_makeups")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_COURSE_CACHE", false)
	v.SetDefault("COURSE_CACHE_TTL", "15m")

	v.SetDefault("SESSION_JWT_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DEADLINE_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DEADLINE_LEAD_DAYS", 2)

	v.SetDefault("EXTENSION_SWEEP_INTERVAL", "5m")
	v.SetDefault("CRON_TOKEN", "")

	v.SetDefault("NOTIFY_DRIVER", NotifyDriverLog)
	v.SetDefault("NOTIFY_FROM_EMAIL", "noreply@localhost")
	v.SetDefault("NOTIFY_FROM_NAME", "ID Makeups")
	v.SetDefault("TTD_EMAIL", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_NOTIFY_TOPIC", "makeup-notifications")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("NOTIFY_BUFFER", 64)
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
