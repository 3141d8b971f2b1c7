// Package coingecko talks to a CoinGecko-compatible market data API. The
// proxy endpoints forward its JSON bodies verbatim, so the client returns raw
// replies and offers parsing only where the aggregation layer needs fields.
package coingecko

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marketproxy/pkg/upstream"
)

const (
	defaultBaseURL = "https://api.coingecko.com"

	simplePricePath = "/api/v3/simple/price"
	marketsPath     = "/api/v3/coins/markets"
)

// Client queries the simple-price and markets endpoints.
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

// WithAPIKey attaches a demo/pro key to every request.
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

// SimplePrice fetches spot prices for ids in one quote currency, optionally
// with the 24h change columns. The reply body is the upstream JSON untouched.
func (c *Client) SimplePrice(ctx context.Context, ids []string, currency string, include24hChange bool) (*upstream.Reply, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", currency)
	q.Set("include_24hr_change", strconv.FormatBool(include24hChange))

	ctx, cancel := c.boundCtx(ctx)
	defer cancel()
	return upstream.Get(ctx, c.httpClient, c.limiter, "coingecko: simple price", c.baseURL+simplePricePath+"?"+q.Encode(), c.header())
}

// Markets fetches the market listing for ids, sorted by market cap, with 7d
// sparklines and the 24h change percentage included.
func (c *Client) Markets(ctx context.Context, ids []string, currency string) (*upstream.Reply, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("ids", strings.Join(ids, ","))
	q.Set("order", "market_cap_desc")
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "24h")

	ctx, cancel := c.boundCtx(ctx)
	defer cancel()
	return upstream.Get(ctx, c.httpClient, c.limiter, "coingecko: markets", c.baseURL+marketsPath+"?"+q.Encode(), c.header())
}

// MarketRows is the aggregation-friendly variant of Markets: any failure,
// non-2xx status, or undecodable body collapses to nil so a partial dashboard
// can still be assembled from the remaining sources.
func (c *Client) MarketRows(ctx context.Context, ids []string, currency string) []MarketRow {
	reply, err := c.Markets(ctx, ids, currency)
	if err != nil || !reply.OK() {
		return nil
	}
	rows, err := ParseMarkets(reply.Body)
	if err != nil {
		return nil
	}
	return rows
}

func (c *Client) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) header() http.Header {
	if c.apiKey == "" {
		return nil
	}
	h := http.Header{}
	h.Set("x-cg-demo-api-key", c.apiKey)
	return h
}
