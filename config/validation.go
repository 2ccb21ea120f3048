package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// minSessionSecretLen keeps HS256 session tokens from using trivially short keys
const minSessionSecretLen = 16

// ValidateConfig checks that the configuration is usable for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{"SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	if u, err := url.Parse(cfg.RecipeAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"RECIPE_API_URL", "must be an absolute URL"})
	}

	// Sensitive values come from Docker secrets outside CI and test
	if cfg.RecipeAPIKey == "" {
		if cfg.Environment == CI || cfg.Environment == Test {
			errs = append(errs, ValidationError{"RECIPE_API_KEY", "environment variable is required"})
		} else {
			errs = append(errs, ValidationError{"recipe_api_key", "secret is required"})
		}
	}
	if len(cfg.SessionSecret) < minSessionSecretLen {
		if cfg.Environment == CI || cfg.Environment == Test {
			errs = append(errs, ValidationError{"SESSION_SECRET", fmt.Sprintf("must be at least %d characters", minSessionSecretLen)})
		} else {
			errs = append(errs, ValidationError{"session_secret", fmt.Sprintf("secret must be at least %d characters", minSessionSecretLen)})
		}
	}

	if cfg.RecipeAPITimeout < 0 {
		errs = append(errs, ValidationError{"RECIPE_API_TIMEOUT", "must not be negative"})
	}
	if cfg.RecipeRateLimit < 0 {
		errs = append(errs, ValidationError{"RECIPE_RATE_LIMIT", "must not be negative"})
	}
	if cfg.TypewriterDelay < 0 {
		errs = append(errs, ValidationError{"TYPEWRITER_DELAY", "must not be negative"})
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, ValidationError{"SESSION_TTL", "must be positive"})
	}

	if cfg.RedisURL != "" {
		if u, err := url.Parse(cfg.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = append(errs, ValidationError{"REDIS_URL", "must be a redis:// or rediss:// URL"})
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
