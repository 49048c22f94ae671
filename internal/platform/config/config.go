// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Configuration is read-only once loaded and is handed to components through their
constructors. No package keeps it in a global.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/campus/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the campus API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): verification tokens and the push stream
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Token lifetimes
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL"       envDefault:"15m"`
	RefreshTokenTTL      time.Duration `env:"REFRESH_TOKEN_TTL"      envDefault:"168h"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" envDefault:"24h"`
	ResetTokenTTL        time.Duration `env:"RESET_TOKEN_TTL"        envDefault:"15m"`

	// FrontendURL is the base used to build links inside verification and reset emails.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	// AdminInviteCode must be supplied at registration to create an admin account.
	// Admin self-registration is disabled while it is empty.
	AdminInviteCode string `env:"ADMIN_INVITE_CODE"`

	// LockTerminalStates rejects any status change out of a terminal state.
	LockTerminalStates bool `env:"LOCK_TERMINAL_STATES" envDefault:"false"`

	// Expiry sweeper
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`
	SweepTimeout  time.Duration `env:"SWEEP_TIMEOUT"  envDefault:"10s"`
	LostFoundTTL  time.Duration `env:"LOSTFOUND_TTL"  envDefault:"168h"`

	// Push notification transport ("log" or "redis")
	PushDriver string `env:"PUSH_DRIVER" envDefault:"log"`
	PushStream string `env:"PUSH_STREAM" envDefault:"notify:push"`

	// Outbound email ("log" or "smtp")
	MailDriver   string `env:"MAIL_DRIVER"   envDefault:"log"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"no-reply@campus.local"`

	// Local blob storage for uploaded images
	UploadDir     string `env:"UPLOAD_DIR"      envDefault:"./data/uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PushDriver {
	case "log", "redis":
	default:
		return fmt.Errorf("config: unsupported PUSH_DRIVER %q", c.PushDriver)
	}

	switch c.MailDriver {
	case "log":
	case "smtp":
		if c.SMTPHost == "" {
			return fmt.Errorf("config: SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
	default:
		return fmt.Errorf("config: unsupported MAIL_DRIVER %q", c.MailDriver)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("config: SWEEP_INTERVAL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the browser origins accepted by the CORS middleware.
func (c *Config) AllowedOrigins() []string {
	origins := []string{strings.TrimRight(c.FrontendURL, "/")}
	for _, origin := range query.StringSlice(c.ExtraOrigins) {
		origins = append(origins, strings.TrimRight(origin, "/"))
	}
	return origins
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
