package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validate validates the entire configuration.
func Validate(cfg *Config) error {
	var errors ValidationErrors

	if errs := validateKernel(&cfg.Kernel); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateCache(&cfg.Cache); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateLogging(&cfg.Logging); len(errs) > 0 {
		errors = append(errors, errs...)
	}

	if cfg.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Value:   cfg.Version,
			Message: "version cannot be empty",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func validateKernel(cfg *KernelConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.MaxPathDepth < 0 {
		errors = append(errors, ValidationError{
			Field:   "kernel.max_path_depth",
			Value:   cfg.MaxPathDepth,
			Message: "must be >= 0 (0 means unbounded)",
		})
	}

	return errors
}

func validateCache(cfg *CacheConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.DispatchTableSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.dispatch_table_size",
			Value:   cfg.DispatchTableSize,
			Message: "must be greater than 0",
		})
	}
	if cfg.ElementCacheSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.element_cache_size",
			Value:   cfg.ElementCacheSize,
			Message: "must be greater than 0",
		})
	}
	if cfg.TTL < 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.ttl",
			Value:   cfg.TTL,
			Message: "must be >= 0",
		})
	}

	return errors
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errors ValidationErrors

	validLevels := []string{"trace", "debug", "info", "warn", "error", "silent"}
	if !contains(validLevels, cfg.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", validLevels),
		})
	}

	return errors
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
