package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Required: issuer claim for tokens

	Algorithm      string        // Optional: JWT signing algorithm (RS256, ES256, EdDSA) (default: EdDSA)
	RSABits        int           // Optional: RSA key size for RS256 (default: 4096)
	NumKeys        int           // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	KeyStorageMode string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	KeyGracePeriod time.Duration // Optional: grace period for retired keys (default: 30 days)
	MasterKeyPath  string        // Optional: path to master encryption key file (for persistent keys)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite file (default: ./auth.db)
	DatabaseURL    string // postgres:// URL, required for the postgres driver
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	AccessTokenTTL  time.Duration // default: 15m
	RefreshTokenTTL time.Duration // default: 7 days
	VerifyEmailTTL  time.Duration // verification and restore links (default: 24h)

	CORSAllowedOrigins []string

	KafkaBrokers  []string // email events go to Kafka when set, otherwise to the log
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	BootstrapAdminEmail    string
	BootstrapAdminName     string
	BootstrapAdminPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment. Outside prod a .env file in the working
// directory is loaded first; variables already set win.
func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		_ = godotenv.Load()
	}

	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "greencity-user"),
		Algorithm:      getEnvOrDefault("AUTH_ALGORITHM", "EdDSA"),
		RSABits:        getEnvIntOrDefault("AUTH_RSA_BITS", 0),
		NumKeys:        getEnvIntOrDefault("AUTH_NUM_KEYS", 0),
		KeyStorageMode: getEnvOrDefault("AUTH_KEY_STORAGE_MODE", "ephemeral"),
		KeyGracePeriod: getEnvDurationOrDefault("AUTH_KEY_GRACE_PERIOD", 30*24*time.Hour),
		MasterKeyPath:  os.Getenv("AUTH_MASTER_KEY_PATH"),

		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		VerifyEmailTTL:  time.Duration(getEnvIntOrDefault("AUTH_VERIFY_EMAIL_TTL_HOURS", 24)) * time.Hour,

		CORSAllowedOrigins: getEnvListOrDefault("AUTH_CORS_ALLOWED_ORIGINS",
			[]string{"http://localhost:4200", "http://localhost:4205"}),

		KafkaBrokers:  getEnvListOrDefault("AUTH_KAFKA_BROKERS", nil),
		KafkaTopic:    os.Getenv("AUTH_KAFKA_EMAIL_TOPIC"),
		KafkaUsername: os.Getenv("AUTH_KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("AUTH_KAFKA_PASSWORD"),

		BootstrapAdminEmail:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminName:     getEnvOrDefault("AUTH_BOOTSTRAP_ADMIN_NAME", "admin"),
		BootstrapAdminPassword: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// Validate reports every problem in cfg at once.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE must not be empty"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.KeyStorageMode {
	case "ephemeral", "persistent":
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_KEY_STORAGE_MODE %q", c.KeyStorageMode))
	}

	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_REFRESH_TOKEN_TTL must be positive"))
	}
	if c.VerifyEmailTTL <= 0 {
		errs = append(errs, errors.New("AUTH_VERIFY_EMAIL_TTL_HOURS must be positive"))
	}
	if (c.BootstrapAdminEmail == "") != (c.BootstrapAdminPassword == "") {
		errs = append(errs, errors.New("AUTH_BOOTSTRAP_ADMIN_EMAIL and AUTH_BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
