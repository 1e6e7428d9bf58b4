package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Server captures process level configuration.
type Server struct {
	Addr         string
	PublicDir    string
	CatalogRoute string
	SeedOnStart  bool

	Log       LogConfig
	Store     StoreConfig
	Redis     RedisConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects and addresses the catalog/contact backing store.
type StoreConfig struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	PostgresDSN    string
	ConnectTimeout time.Duration
}

// RedisConfig is optional; an empty URL disables the seeding barrier.
type RedisConfig struct {
	URL         string
	DialTimeout time.Duration
	LockTTL     time.Duration
}

// EmailConfig holds sender credentials. Both User and Pass present selects the
// real SMTP transport; otherwise a disposable test mailbox is used.
type EmailConfig struct {
	User     string
	Pass     string
	Service  string
	Receiver string
	Timeout  time.Duration
}

// HasCredentials reports whether real delivery is configured.
func (e EmailConfig) HasCredentials() bool {
	return e.User != "" && e.Pass != ""
}

// RateLimitConfig bounds contact submissions per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	ContactRPS   float64
	ContactBurst int

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

var loadDotEnv sync.Once

// LoadDotEnv reads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv() {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	port := envString("PORT", "5000")

	cfg := Server{
		Addr:         ":" + strings.TrimPrefix(port, ":"),
		PublicDir:    envString("PUBLIC_DIR", "public"),
		CatalogRoute: strings.Trim(envString("CATALOG_ROUTE", "products"), "/"),
		SeedOnStart:  envBool("SEED_ON_START", true),
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(envString("STORE_DRIVER", DriverMongo)),
			MongoURI:       os.Getenv("MONGODB_URI"),
			MongoDatabase:  envString("MONGODB_DATABASE", "storefront"),
			PostgresDSN:    os.Getenv("DATABASE_URL"),
			ConnectTimeout: envDuration("STORE_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:         os.Getenv("REDIS_URL"),
			DialTimeout: envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			LockTTL:     envDuration("SEED_LOCK_TTL", 30*time.Second),
		},
		Email: EmailConfig{
			User:     os.Getenv("EMAIL_USER"),
			Pass:     os.Getenv("EMAIL_PASS"),
			Service:  envString("EMAIL_SERVICE", "gmail"),
			Receiver: os.Getenv("EMAIL_RECEIVER"),
			Timeout:  envDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			ContactRPS:     envFloat("CONTACT_RATE_LIMIT_RPS", 0.2),
			ContactBurst:   envInt("CONTACT_RATE_LIMIT_BURST", 5),
			TrustedProxies: envList("TRUSTED_PROXIES"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks required settings for the selected store driver.
func (s Server) Validate() error {
	var errs []error
	switch s.Store.Driver {
	case DriverMongo:
		if s.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when STORE_DRIVER=mongo"))
		}
	case DriverPostgres:
		if s.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", s.Store.Driver))
	}
	if s.CatalogRoute == "" {
		errs = append(errs, errors.New("CATALOG_ROUTE must not be empty"))
	}
	if s.Email.Timeout <= 0 {
		errs = append(errs, errors.New("EMAIL_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}
