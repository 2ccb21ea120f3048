package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client
	TrustedProxies []string
	LogLevel       string

	// Recipe API configuration
	RecipeAPIURL     string
	RecipeAPIKey     string
	RecipeAPITimeout time.Duration
	RecipeRateLimit  int
	TypewriterDelay  time.Duration

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration

	// Redis configuration, optional: an empty host and URL keeps sessions in memory
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string
}

// UseRedis reports whether a Redis server was configured
func (c *Config) UseRedis() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Address is the listen address for the HTTP server
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// newViper binds the non-secret settings to environment variables with defaults
func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RECIPE_API_URL", "https://api.shecodes.io/ai/v1/generate")
	v.SetDefault("RECIPE_API_TIMEOUT", "0s")
	v.SetDefault("RECIPE_RATE_LIMIT", 30)
	v.SetDefault("TYPEWRITER_DELAY", "30ms")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_URL", "")
	return v
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := newViper()

	cfg := &Config{
		Environment:      env,
		ServerPort:       v.GetString("SERVER_PORT"),
		ServerHost:       v.GetString("SERVER_HOST"),
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS")),
		TrustedProxies:   splitList(v.GetString("TRUSTED_PROXIES")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		RecipeAPIURL:     v.GetString("RECIPE_API_URL"),
		RecipeAPITimeout: v.GetDuration("RECIPE_API_TIMEOUT"),
		RecipeRateLimit:  v.GetInt("RECIPE_RATE_LIMIT"),
		TypewriterDelay:  v.GetDuration("TYPEWRITER_DELAY"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		RedisHost:        v.GetString("REDIS_HOST"),
		RedisPort:        v.GetString("REDIS_PORT"),
		RedisDB:          v.GetInt("REDIS_DB"),
		RedisURL:         v.GetString("REDIS_URL"),
	}

	// Load secrets based on environment
	switch env {
	case CI, Test:
		loadEnvSecrets(cfg)
	case Development:
		loadDevSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvSecrets reads secrets from environment variables only
func loadEnvSecrets(cfg *Config) {
	cfg.RecipeAPIKey = os.Getenv("RECIPE_API_KEY")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
}

// loadDevSecrets prefers Docker secrets and falls back to environment variables
func loadDevSecrets(cfg *Config) {
	cfg.RecipeAPIKey = secretOrEnv("recipe_api_key", "RECIPE_API_KEY")
	cfg.SessionSecret = secretOrEnv("session_secret", "SESSION_SECRET")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD")
}

// loadProdSecrets loads secrets using ONLY Docker secrets
func loadProdSecrets(cfg *Config) {
	cfg.RecipeAPIKey = readSecret("recipe_api_key")
	cfg.SessionSecret = readSecret("session_secret")
	cfg.RedisPassword = readSecret("redis_password")
}

func secretOrEnv(secret, envVar string) string {
	if value := readSecret(secret); value != "" {
		return value
	}
	return os.Getenv(envVar)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
