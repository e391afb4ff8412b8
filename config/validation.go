package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []error

	required := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	required("SERVER_PORT", cfg.ServerPort)
	if cfg.ServerPort != "" {
		if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
			errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)})
		}
	}

	if cfg.DatabaseURL == "" {
		required("DB_HOST", cfg.DBHost)
		required("DB_PORT", cfg.DBPort)
		required("DB_NAME", cfg.DBName)
		required("DB_USER", cfg.DBUser)
		if env == CI || env == Production {
			required("DB_PASSWORD", cfg.DBPassword)
		}
	}

	required("JWT_SECRET", cfg.JWTSecret)
	if env == Production && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"})
	}

	if cfg.ProposalRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "PROPOSAL_RATE_LIMIT", Message: "must be >= 0"})
	}
	if cfg.ImageURLTTL <= 0 {
		errs = append(errs, ValidationError{Field: "IMAGE_URL_TTL", Message: "must be positive"})
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: fmt.Sprintf("unsupported format %q", cfg.LogFormat)})
	}

	return errors.Join(errs...)
}
