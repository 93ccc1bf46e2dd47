package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Security  SecurityConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

// RedisConfig holds the session store connection. An empty Addresses list
// means sessions are kept in process memory.
type RedisConfig struct {
	Addresses []string
	Password  string
	DB        int
}

type SessionConfig struct {
	Secret         string
	TTLHours       int
	CookieSecure   bool
	CleanupMinutes int
}

type SecurityConfig struct {
	BcryptCost         int
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// BootstrapConfig describes the admin account created on first start.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// DefaultSessionSecret is used when SESSION_SECRET is unset. It is public,
// so release mode refuses to start with it.
const DefaultSessionSecret = "change-this-session-secret-in-production"

// ErrDefaultSessionSecret is returned by Validate in release mode when
// SESSION_SECRET was not set
var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set when GIN_MODE=release")

var AppConfig *Config

// UsesDefaultSessionSecret reports whether session tokens are signed with the
// built-in secret
func (c *Config) UsesDefaultSessionSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}

// Validate rejects settings that are unsafe in release mode
func (c *Config) Validate() error {
	if c.Server.GinMode == "release" && c.UsesDefaultSessionSecret() {
		return ErrDefaultSessionSecret
	}
	return nil
}

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DB_URL", ""),
		},
		Redis: RedisConfig{
			Addresses: getEnvAsList("REDIS_ADDRS", getEnvAsList("REDIS_ADDR", nil)),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:         getEnv("SESSION_SECRET", DefaultSessionSecret),
			TTLHours:       getEnvAsInt("SESSION_TTL_HOURS", 24*14),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", false),
			CleanupMinutes: getEnvAsInt("SESSION_CLEANUP_MINUTES", 10),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			AllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
