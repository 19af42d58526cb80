// Package meridian re-exports the REST client so callers can depend on the
// module root. The full surface lives in pkg/rest (endpoint services),
// pkg/marketdata (value types), pkg/indicators (indicator series), and
// pkg/flatfiles (bulk file downloads).
package meridian

import (
	"meridian-api/pkg/rest"
)

// Core client types, aliased from pkg/rest.
type (
	Client = rest.Client
	Config = rest.Config
	Option = rest.Option

	APIError                 = rest.APIError
	InvalidCredentialsError  = rest.InvalidCredentialsError
	NoPreviousDataFoundError = rest.NoPreviousDataFoundError
)

// Client options, aliased from pkg/rest.
var (
	WithHTTPClient = rest.WithHTTPClient
	WithBaseURL    = rest.WithBaseURL
	WithLogger     = rest.WithLogger
	WithMaxRetries = rest.WithMaxRetries
	WithRateLimit  = rest.WithRateLimit
	WithMaxPages   = rest.WithMaxPages
)

// NewClient constructs a REST client from a resolved configuration.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	return rest.NewClient(cfg, opts...)
}

// ResolveConfig resolves configuration from explicit fields, MERIDIAN_*
// environment variables, and the optional YAML config file.
func ResolveConfig(explicit *Config) (*Config, error) {
	return rest.ResolveConfig(explicit)
}
