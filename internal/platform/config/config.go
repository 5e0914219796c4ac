// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, resolvers) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the ScholarLink API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// ORCID public registry API.
	OrcidBaseURL string `env:"ORCID_BASE_URL" envDefault:"https://pub.orcid.org/v3.0"`

	// SimilarityURL points at the external RAG similarity service.
	// Optional: when empty, similarity search responds 503.
	SimilarityURL string `env:"SIMILARITY_URL"`

	// ResolverConcurrency caps in-flight LLM resolutions per batch.
	ResolverConcurrency int `env:"RESOLVER_CONCURRENCY" envDefault:"4"`

	// ProviderRPS throttles outbound calls to LLM providers and the ORCID
	// registry, both of which enforce their own rate limits.
	ProviderRPS float64 `env:"PROVIDER_RPS" envDefault:"3"`

	// Environment fallbacks for LLM API keys. The database-stored keys
	// (cles_api table) take precedence; these are used when the table is empty.
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	DeepSeekAPIKey string `env:"DEEPSEEK_API_KEY"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.ResolverConcurrency < 1 {
		return nil, fmt.Errorf("config: RESOLVER_CONCURRENCY must be >= 1, got %d", cfg.ResolverConcurrency)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS list as a slice.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
