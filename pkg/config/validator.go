package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateLogger(&cfg.Logger)
	v.validateDiscord(&cfg.Discord)
	v.validateInteractions(&cfg.Interactions, &cfg.Redis)
	v.validateIndex(&cfg.Index)
	v.validateRateLimit(&cfg.RateLimit)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		v.addError("logger.level", "level must be one of: debug, info, warn, error, fatal")
	}
}

func (v *Validator) validateDiscord(cfg *DiscordConfig) {
	if cfg.Enabled && strings.TrimSpace(cfg.Token) == "" {
		v.addError("discord.token", "token is required when Discord is enabled")
	}
	if cfg.RegisterOnStart && len(cfg.GuildIDs) == 0 {
		v.addError("discord.guild_ids", "guild_ids are required when register_on_start is set")
	}
}

func (v *Validator) validateInteractions(cfg *InteractionsConfig, redis *RedisConfig) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(redis.Addr) == "" {
			v.addError("redis.addr", "addr is required when interactions.backend is redis")
		}
	default:
		v.addError("interactions.backend", "backend must be one of: memory, redis")
	}

	if ttl, err := time.ParseDuration(cfg.TTL); err != nil {
		v.addError("interactions.ttl", fmt.Sprintf("invalid duration: %v", err))
	} else if ttl <= 0 {
		v.addError("interactions.ttl", "ttl must be greater than 0")
	}

	if interval, err := time.ParseDuration(cfg.SweepInterval); err != nil {
		v.addError("interactions.sweep_interval", fmt.Sprintf("invalid duration: %v", err))
	} else if interval < 0 {
		v.addError("interactions.sweep_interval", "sweep_interval must not be negative")
	}
}

// maxIndexResults matches the number of choices a prompt can offer.
const maxIndexResults = 25

func (v *Validator) validateIndex(cfg *IndexConfig) {
	if len(cfg.Paths) == 0 {
		v.addError("index.paths", "at least one index path is required")
	}
	if cfg.MaxResults < 1 || cfg.MaxResults > maxIndexResults {
		v.addError("index.max_results", fmt.Sprintf("max_results must be between 1 and %d", maxIndexResults))
	}
	if cfg.MaxDistance < 0 {
		v.addError("index.max_distance", "max_distance must be non-negative")
	}
}

func (v *Validator) validateRateLimit(cfg *RateLimitConfig) {
	if cfg.PerSecond < 0 {
		v.addError("ratelimit.per_second", "per_second must be non-negative")
	}
	if cfg.PerSecond > 0 && cfg.Burst < 1 {
		v.addError("ratelimit.burst", "burst must be at least 1 when rate limiting is enabled")
	}
}

// addError adds a validation error.
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfig is a convenience function to validate a configuration.
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.Validate(cfg)
}
