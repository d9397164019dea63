package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset. The
// server must not start without it.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")

const (
	StorageExternal = "external"
	StorageMemory   = "memory"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port      string
	APIPrefix string

	StorageDriver string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	JWTSecret       string
	TokenTTL        time.Duration
	PasswordStorage string

	ShareBaseURL      string
	CORSOrigins       []string
	SigninMaxAttempts int
	SigninWindow      time.Duration

	SentryDSN string
	AppEnv    string
	LogLevel  string
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	tokenTTL, err := durationEnv("TOKEN_TTL", 0)
	if err != nil {
		return nil, err
	}
	signinWindow, err := durationEnv("SIGNIN_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	signinMax, err := intEnv("SIGNIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:      getenv("PORT", "3000"),
		APIPrefix: getenv("API_PREFIX", "/api/v1"),

		StorageDriver: getenv("STORAGE_DRIVER", StorageExternal),
		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		MongoURI:      mongoURI(),
		MongoDB:       getenv("MONGO_DB", getenv("MONGODB_DATABASE", "second_brain")),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		JWTSecret:       getenv("JWT_SECRET", ""),
		TokenTTL:        tokenTTL,
		PasswordStorage: getenv("PASSWORD_STORAGE", "plain"),

		ShareBaseURL:      getenv("SHARE_BASE_URL", "http://localhost:5173"),
		CORSOrigins:       splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
		SigninMaxAttempts: signinMax,
		SigninWindow:      signinWindow,

		SentryDSN: getenv("SENTRY_DSN", ""),
		AppEnv:    getenv("APP_ENV", "development"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.StorageDriver != StorageExternal && cfg.StorageDriver != StorageMemory {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// mongoURI prefers MONGO_URI and otherwise assembles an Atlas SRV URI from
// the MONGODB_* parts.
func mongoURI() string {
	if uri := getenv("MONGO_URI", ""); uri != "" {
		return uri
	}
	user, pass, cluster := os.Getenv("MONGODB_USERNAME"), os.Getenv("MONGODB_PASSWORD"), os.Getenv("MONGODB_CLUSTER")
	if cluster == "" {
		return "mongodb://localhost:27017"
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/%s?retryWrites=true&w=majority",
		user, pass, cluster, os.Getenv("MONGODB_DATABASE"))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationEnv parses key as a Go duration. Unset keeps fallback; a value
// that does not parse is an error.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %q", key, v)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
