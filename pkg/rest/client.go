// Package rest is the typed client for the Meridian market data REST API.
// A Client authenticates every call, hands the JSON payloads to the
// marketdata and indicators factories, and maps failures onto the typed
// errors in this package. It performs no caching and no persistence; retry
// and rate limiting live in the default transport, below the client's
// one-call-per-operation contract.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"meridian-api/pkg/flatfiles"
)

const (
	defaultBaseURL     = "https://api.meridian.io"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxPages    = 50
	userAgent          = "meridian-api-go"
)

// Client talks to the Meridian REST API. One Client is safe for concurrent
// use; the service accessors are cheap stateless views constructed per call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
	maxPages   int
	cfg        *Config
}

// Option configures a new Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
	maxRetries int
	limiter    *rate.Limiter
	maxPages   int
}

// WithHTTPClient replaces the default HTTP client entirely, including its
// retry and rate-limit transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API base URL ahead of config and defaults.
func WithBaseURL(url string) Option {
	return func(o *clientOptions) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithLogger injects a request logger. The client is silent without one.
func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxRetries adjusts the default transport's retry budget. Zero disables
// retries.
func WithMaxRetries(max int) Option {
	return func(o *clientOptions) {
		if max >= 0 {
			o.maxRetries = max
		}
	}
}

// WithRateLimit gates outbound requests behind a token bucket of rps
// requests per second with the given burst. Only the default transport
// applies it.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		if rps > 0 && burst > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMaxPages caps how many cursor pages a listing operation will follow.
func WithMaxPages(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.maxPages = n
		}
	}
}

// NewClient constructs a Client from a resolved configuration.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("meridian: config cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("meridian: api key is required")
	}

	o := clientOptions{
		maxRetries: defaultMaxRetries,
		maxPages:   defaultMaxPages,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: newRetryTransport(nil, o.maxRetries, o.limiter),
		}
	}

	baseURL := firstNonEmpty(o.baseURL, cfg.BaseURL, defaultBaseURL)
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     o.logger,
		maxPages:   o.maxPages,
		cfg:        cfg,
	}, nil
}

// Options returns a handler for the options contract endpoints.
func (c *Client) Options() *OptionsService { return &OptionsService{client: c} }

// Stocks returns a handler for the stock market data endpoints.
func (c *Client) Stocks() *StocksService { return &StocksService{client: c} }

// Markets returns a handler for the market status and calendar endpoints.
func (c *Client) Markets() *MarketsService { return &MarketsService{client: c} }

// Exchanges returns a handler for the exchange reference endpoint.
func (c *Client) Exchanges() *ExchangesService { return &ExchangesService{client: c} }

// Indicators returns a handler for the technical indicator endpoints.
func (c *Client) Indicators() *IndicatorsService { return &IndicatorsService{client: c} }

// FlatFiles constructs a flat-file download client from the resolved S3
// credentials.
func (c *Client) FlatFiles() (*flatfiles.Client, error) {
	return flatfiles.New(flatfiles.Config{
		Endpoint:        c.cfg.FlatFilesEndpoint,
		Bucket:          c.cfg.FlatFilesBucket,
		AccessKeyID:     c.cfg.S3AccessKeyID,
		SecretAccessKey: c.cfg.S3SecretAccessKey,
	})
}

// envelope is the wrapper most JSON endpoints respond with. raw keeps the
// body as received for the few endpoints that skip the wrapper.
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Count     int             `json:"count"`
	NextURL   string          `json:"next_url"`
	Results   json.RawMessage `json:"results"`
	ErrorMsg  string          `json:"error"`
	Message   string          `json:"message"`

	raw []byte
}

// get performs one authenticated round trip against an API path.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.getURL(ctx, u)
}

// getURL performs a round trip against an absolute URL; pagination hands
// next_url cursors here unchanged.
func (c *Client) getURL(ctx context.Context, rawURL string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("meridian: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logf("meridian: GET %s", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("meridian: request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("meridian: read response: %w", err)
	}
	body = bytes.TrimSpace(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		env := envelope{}
		_ = json.Unmarshal(body, &env)
		return nil, apiErrorFor(resp.StatusCode, &env)
	}

	env := &envelope{raw: body}
	if len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, env); err != nil {
			return nil, fmt.Errorf("meridian: decode response: %w", err)
		}
	}
	return env, nil
}

// apiErrorFor maps a non-2xx response onto the typed error hierarchy.
func apiErrorFor(status int, env *envelope) error {
	apiErr := &APIError{
		StatusCode: status,
		Message:    firstNonEmpty(env.ErrorMsg, env.Message),
		RequestID:  env.RequestID,
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &InvalidCredentialsError{APIError: apiErr}
	}
	return apiErr
}

// collectPages walks a cursor-paginated listing, invoking each per page of
// results. The page cap guards against a cursor loop.
func (c *Client) collectPages(ctx context.Context, path string, query url.Values, each func(results json.RawMessage) error) error {
	env, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	for page := 1; ; page++ {
		if len(env.Results) > 0 {
			if err := each(env.Results); err != nil {
				return err
			}
		}
		if env.NextURL == "" {
			return nil
		}
		if page >= c.maxPages {
			return fmt.Errorf("meridian: pagination exceeded %d pages for %s", c.maxPages, path)
		}
		env, err = c.getURL(ctx, env.NextURL)
		if err != nil {
			return err
		}
	}
}

// logf writes through the configured logger; silent otherwise.
func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func requireArg(value, name string) error {
	if value == "" {
		return fmt.Errorf("meridian: %s is required", name)
	}
	return nil
}
