// Package finnhub talks to a Finnhub-compatible stock quote API.
package finnhub

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marketproxy/pkg/upstream"
)

const (
	defaultBaseURL = "https://finnhub.io"

	quotePath = "/api/v1/quote"
)

// Client queries the quote endpoint. The API key travels in the
// X-Finnhub-Token header so it never shows up in request URLs or logs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sets the account token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
			c.httpClient.Timeout = d
		}
	}
}

// WithLimiter throttles outbound requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient returns a client with production defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: upstream.DefaultTimeout},
		timeout:    upstream.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConf builds a client from one provider section of upstreams.yaml.
func NewFromConf(cfg upstream.ProviderConf) *Client {
	var opts []Option
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if l := cfg.Limiter(); l != nil {
		opts = append(opts, WithLimiter(l))
	}
	return NewClient(opts...)
}

// Quote fetches the real-time quote for one symbol. The reply body is the
// upstream JSON untouched; callers decide how to interpret it.
func (c *Client) Quote(ctx context.Context, symbol string) (*upstream.Reply, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return upstream.Get(ctx, c.httpClient, c.limiter, "finnhub: quote", c.baseURL+quotePath+"?"+q.Encode(), c.header())
}

func (c *Client) header() http.Header {
	if c.apiKey == "" {
		return nil
	}
	h := http.Header{}
	h.Set("X-Finnhub-Token", c.apiKey)
	return h
}
