// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// defaultAdminAllowlist is used when STUDIO_ADMIN_ALLOWLIST is not set.
// Registration is only open to these addresses.
var defaultAdminAllowlist = []string{
	"sandesh@example.com",
	"admin@example.com",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"STUDIO_DB_DRIVER" envDefault:"sqlite"` // sqlite or mysql
	DBPath        string `env:"STUDIO_DB_PATH" envDefault:"./data/studio.db"`
	DBDSN         string `env:"STUDIO_DB_DSN"` // MySQL DSN when DBDriver is mysql
	SessionSecret string `env:"STUDIO_SESSION_SECRET,required"`
	ServerHost    string `env:"STUDIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"STUDIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"STUDIO_ENV" envDefault:"development"`
	LogLevel      string `env:"STUDIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"STUDIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Public site URL used for absolute links in the sitemap and robots.txt.
	SiteURL string `env:"STUDIO_SITE_URL" envDefault:"http://localhost:8080"`

	// Admin registration allowlist, comma-separated email addresses.
	AdminAllowlist []string `env:"STUDIO_ADMIN_ALLOWLIST" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"STUDIO_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"STUDIO_CACHE_PREFIX" envDefault:"studio:"` // Redis key prefix
	CacheTTL     int    `env:"STUDIO_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"STUDIO_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"STUDIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// OpenAI configuration, used for blog excerpt suggestions.
	OpenAIKey   string `env:"STUDIO_OPENAI_API_KEY"`
	OpenAIModel string `env:"STUDIO_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Seeding configuration
	DoSeed bool `env:"STUDIO_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseMySQL returns true if the hosted MySQL store is configured.
func (c Config) UseMySQL() bool {
	return c.DBDriver == "mysql"
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// AIEnabled returns true if an OpenAI API key is configured.
func (c Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("STUDIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("STUDIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("STUDIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.UseMySQL() && cfg.DBDSN == "" {
		return nil, fmt.Errorf("STUDIO_DB_DSN is required when STUDIO_DB_DRIVER is mysql")
	}

	if len(cfg.AdminAllowlist) == 0 {
		cfg.AdminAllowlist = defaultAdminAllowlist
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
