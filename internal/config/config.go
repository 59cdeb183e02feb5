// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage backend names.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"jelly-magazine-secret-jelly-magazine-secret",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Storage       string `env:"JELLY_STORAGE" envDefault:"sqlite"`
	DBPath        string `env:"JELLY_DB_PATH" envDefault:"./data/jelly.db"`
	SessionSecret string `env:"JELLY_SESSION_SECRET,required"`
	MasterCode    string `env:"JELLY_MASTER_CODE"` // Empty disables owner self-elevation at signup
	ServerHost    string `env:"JELLY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"JELLY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"JELLY_ENV" envDefault:"development"`
	LogLevel      string `env:"JELLY_LOG_LEVEL" envDefault:"info"`

	// CORS configuration for the decoupled React front-end
	CORSOrigins []string `env:"JELLY_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Seeding configuration
	DoSeed bool `env:"JELLY_DO_SEED" envDefault:"false"` // Enable demo data seeding

	// Event log retention in days; older events are pruned by the scheduler
	EventRetentionDays int `env:"JELLY_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseMemoryStorage returns true if the in-memory storage backend is selected.
func (c Config) UseMemoryStorage() bool {
	return c.Storage == StorageMemory
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Storage != StorageMemory && cfg.Storage != StorageSQLite {
		return nil, fmt.Errorf("JELLY_STORAGE must be %q or %q, got %q",
			StorageMemory, StorageSQLite, cfg.Storage)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("JELLY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("JELLY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("JELLY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.MasterCode == "" {
		slog.Info("JELLY_MASTER_CODE not set; owner self-elevation at signup is disabled")
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
