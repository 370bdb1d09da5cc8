package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const MinJWTSecretLength = 32

type Config struct {
	App             AppConfig
	Database        DatabaseConfig
	JWT             JWTConfig
	BcryptCost      int
	Google          GoogleConfig
	Redis           RedisConfig
	Mail            MailConfig
	EmailReputation EmailReputationConfig
}

type AppConfig struct {
	Env             string
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	AutoMigrate       bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// CodeFlowEnabled reports whether the redirect-based login can be offered.
func (g GoogleConfig) CodeFlowEnabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	ResendAPIKey string
	From         string
	NotifyTo     string
}

type EmailReputationConfig struct {
	Enabled bool
	APIKey  string
}

// Load reads config/env/<APP_ENV>.env and .env (without overriding variables
// already present in the environment) and builds the process configuration.
func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	for _, path := range []string{filepath.Join("config", "env", env+".env"), ".env"} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() (*Config, error) {
	var errs []error
	p := parser{errs: &errs}

	cfg := &Config{
		App: AppConfig{
			Env:             getEnv("APP_ENV", "development"),
			Port:            getEnv("PORT", "3001"),
			CORSOrigins:     splitList(getEnv("CORS_ORIGIN", "*")),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", "10s"),
		},
		Database: DatabaseConfig{
			URL:               os.Getenv("DATABASE_URL"),
			MaxConns:          int32(p.int("DB_MAX_CONNS", 10)),
			MinConns:          int32(p.int("DB_MIN_CONNS", 1)),
			MaxConnLifetime:   p.duration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime:   p.duration("DB_MAX_CONN_IDLE_TIME", "30m"),
			HealthCheckPeriod: p.duration("DB_HEALTH_CHECK_PERIOD", "1m"),
			ConnectTimeout:    p.duration("DB_CONNECT_TIMEOUT", "5s"),
			AutoMigrate:       p.bool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    p.duration("JWT_EXPIRES_IN", "7d"),
			Issuer: getEnv("JWT_ISSUER", "storefront-api"),
		},
		BcryptCost: p.int("BCRYPT_COST", 10),
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.int("REDIS_DB", 0),
		},
		Mail: MailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("MAIL_FROM", "Storefront <onboarding@resend.dev>"),
			NotifyTo:     os.Getenv("CONTACT_NOTIFY_TO"),
		},
		EmailReputation: EmailReputationConfig{
			Enabled: p.bool("USE_EMAIL_REPUTATION", false),
			APIKey:  os.Getenv("ABSTRACT_EMAIL_API_KEY"),
		},
	}

	if cfg.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(cfg.JWT.Secret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if cfg.EmailReputation.Enabled && cfg.EmailReputation.APIKey == "" {
		errs = append(errs, errors.New("ABSTRACT_EMAIL_API_KEY is required when USE_EMAIL_REPUTATION=true"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
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

// ParseDuration accepts Go durations plus a day suffix ("7d").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(raw)
}

type parser struct {
	errs *[]error
}

func (p parser) duration(key, fallback string) time.Duration {
	d, err := ParseDuration(getEnv(key, fallback))
	if err != nil || d <= 0 {
		*p.errs = append(*p.errs, fmt.Errorf("%s: invalid duration", key))
		return 0
	}
	return d
}

func (p parser) int(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: must be an integer", key))
		return fallback
	}
	return n
}

func (p parser) bool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: must be a boolean", key))
		return fallback
	}
	return b
}
