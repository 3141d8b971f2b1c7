// Package yahoochart talks to a Yahoo Finance-compatible chart API. The
// endpoint is public but rejects clients without a browser-looking
// User-Agent, so every request carries one.
package yahoochart

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
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	chartPath = "/v8/finance/chart/"
)

// Client queries the chart endpoint for intraday series.
type Client struct {
	baseURL    string
	userAgent  string
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

// WithUserAgent overrides the browser impersonation string.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
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
		userAgent:  defaultUserAgent,
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
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if l := cfg.Limiter(); l != nil {
		opts = append(opts, WithLimiter(l))
	}
	return NewClient(opts...)
}

// Chart fetches one trading day of 5-minute candles for symbol. The reply
// body is the upstream JSON untouched.
func (c *Client) Chart(ctx context.Context, symbol string) (*upstream.Reply, error) {
	q := url.Values{}
	q.Set("interval", "5m")
	q.Set("range", "1d")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	return upstream.Get(ctx, c.httpClient, c.limiter, "yahoochart: chart", c.baseURL+chartPath+url.PathEscape(symbol)+"?"+q.Encode(), header)
}

// Summarize fetches and condenses the chart for symbol in one step.
func (c *Client) Summarize(ctx context.Context, symbol string) (*Summary, error) {
	reply, err := c.Chart(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !reply.OK() {
		return nil, upstream.NoData("yahoochart: chart " + symbol)
	}
	return ParseChart(symbol, reply.Body)
}
