// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys shared between
different layers of the system, keeping magic strings and magic numbers out of
the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "scholarlink-api"
	AppVersion = "0.3.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Batch resolution responses can be large, so this is generous.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Table-driven resolution fans out to an LLM provider per row, so the
	// ceiling is much higher than a typical CRUD request.
	GlobalRequestTimeout = 10 * time.Minute

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Headers

const (
	// HeaderXRequestID carries the correlation ID for log tracing.
	HeaderXRequestID = "X-Request-ID"

	// HeaderXRealIP is set by reverse proxies to the original client IP.
	HeaderXRealIP = "X-Real-IP"

	// HeaderXForwardedFor is the standard proxy chain header.
	HeaderXForwardedFor = "X-Forwarded-For"

	// HeaderOrigin is sent by browsers on cross-origin requests.
	HeaderOrigin = "Origin"
)

// # JSON Field Names

const (
	// FieldError is the envelope key for the human-readable error message.
	FieldError = "error"

	// FieldCode is the envelope key for the machine-readable error code.
	FieldCode = "code"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixOrcidProfile caches raw ORCID registry payloads per iD.
	RedisPrefixOrcidProfile = "orcid:profile:"
)

// # Cache TTLs

const (
	// OrcidProfileTTL bounds how stale a cached registry profile may become.
	OrcidProfileTTL = 6 * time.Hour
)
