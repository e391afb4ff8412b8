package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DatabaseURL, when set, wins over the discrete fields.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string

	// Recommendation engine tuning file, loaded with LoadRecommendation
	RecommendationConfigPath string

	// Recipe images
	S3Bucket    string
	AWSRegion   string
	ImageURLTTL time.Duration

	// Requests per minute per caller on the proposal endpoint; 0 disables limiting
	ProposalRateLimit int

	CORSOrigins []string
}

// secretNames are read from SECRETS_DIR outside CI
var secretNames = map[string]bool{
	"DB_PASSWORD":    true,
	"DB_USER":        true,
	"JWT_SECRET":     true,
	"REDIS_PASSWORD": true,
	"DATABASE_URL":   true,
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var get func(string) string
	switch env {
	case CI:
		get = os.Getenv
	case Development, Test:
		get = envThenSecret
	case Production:
		get = secretThenEnv
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg, err := load(env, get)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(env Environment, get func(string) string) (*Config, error) {
	local := env == Development || env == Test
	withDefault := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		if local {
			return def
		}
		return ""
	}

	cfg := &Config{
		ServerPort:               withDefault("SERVER_PORT", "8080"),
		ServerHost:               withDefault("SERVER_HOST", "0.0.0.0"),
		DatabaseURL:              get("DATABASE_URL"),
		DBHost:                   withDefault("DB_HOST", "localhost"),
		DBPort:                   withDefault("DB_PORT", "5432"),
		DBUser:                   withDefault("DB_USER", "postgres"),
		DBPassword:               get("DB_PASSWORD"),
		DBName:                   withDefault("DB_NAME", "pantrychef"),
		DBSSLMode:                withDefault("DB_SSL_MODE", "disable"),
		RedisURL:                 get("REDIS_URL"),
		RedisHost:                withDefault("REDIS_HOST", "localhost"),
		RedisPort:                withDefault("REDIS_PORT", "6379"),
		RedisPassword:            get("REDIS_PASSWORD"),
		JWTSecret:                get("JWT_SECRET"),
		LogLevel:                 orDefault(get("LOG_LEVEL"), "info"),
		LogFormat:                orDefault(get("LOG_FORMAT"), "json"),
		RecommendationConfigPath: get("RECOMMENDATION_CONFIG"),
		S3Bucket:                 get("S3_BUCKET_NAME"),
		AWSRegion:                get("AWS_REGION"),
		ImageURLTTL:              15 * time.Minute,
		ProposalRateLimit:        60,
		CORSOrigins:              splitList(orDefault(get("CORS_ORIGINS"), "*")),
	}

	var err error
	if cfg.RedisDB, err = intValue(get, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ProposalRateLimit, err = intValue(get, "PROPOSAL_RATE_LIMIT", cfg.ProposalRateLimit); err != nil {
		return nil, err
	}
	if v := get("IMAGE_URL_TTL"); v != "" {
		if cfg.ImageURLTTL, err = time.ParseDuration(v); err != nil {
			return nil, ValidationError{Field: "IMAGE_URL_TTL", Message: err.Error()}
		}
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func envThenSecret(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if secretNames[key] {
		return readSecret(strings.ToLower(key))
	}
	return ""
}

func secretThenEnv(key string) string {
	if secretNames[key] {
		if v := readSecret(strings.ToLower(key)); v != "" {
			return v
		}
	}
	return os.Getenv(key)
}

func intValue(get func(string) string, key string, def int) (int, error) {
	v := get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("must be an integer, got %q", v)}
	}
	return n, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// secretsDir returns the Docker secrets directory
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
