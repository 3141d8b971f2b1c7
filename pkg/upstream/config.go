package upstream

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// Config is the parsed form of etc/upstreams.yaml. Each provider gets its own
// section; a missing section leaves the zero ProviderConf, which the clients
// back-fill with their defaults.
type Config struct {
	Coingecko  ProviderConf `yaml:"coingecko"`
	Finnhub    ProviderConf `yaml:"finnhub"`
	YahooChart ProviderConf `yaml:"yahoochart"`
}

// ProviderConf configures one upstream client. String fields may reference
// environment variables with ${VAR} placeholders; they are expanded at load
// time so secrets stay out of the file.
type ProviderConf struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutRaw string `yaml:"timeout"`
	// RateLimit caps outbound requests per second to the provider; zero
	// disables local limiting. RateBurst defaults to 1 when unset.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	Timeout time.Duration `yaml:"-"`
}

// LoadConfig reads and validates the provider configuration at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("upstream: open config: %w", err)
	}
	defer f.Close()
	return LoadConfigFromReader(f)
}

// LoadConfigFromReader parses provider configuration from r, expands
// environment placeholders, and resolves raw durations.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("upstream: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("upstream: parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	for name, p := range map[string]*ProviderConf{
		"coingecko":  &c.Coingecko,
		"finnhub":    &c.Finnhub,
		"yahoochart": &c.YahooChart,
	} {
		p.expandEnv()
		if err := p.parseTimeout(); err != nil {
			return fmt.Errorf("upstream: %s: %w", name, err)
		}
	}
	return nil
}

func (p *ProviderConf) expandEnv() {
	p.BaseURL = os.ExpandEnv(p.BaseURL)
	p.APIKey = os.ExpandEnv(p.APIKey)
	p.UserAgent = os.ExpandEnv(p.UserAgent)
	p.TimeoutRaw = os.ExpandEnv(p.TimeoutRaw)
}

func (p *ProviderConf) parseTimeout() error {
	if p.TimeoutRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(p.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", p.TimeoutRaw, err)
	}
	p.Timeout = d
	return nil
}

// Validate rejects values the clients cannot run with.
func (c *Config) Validate() error {
	for name, p := range map[string]ProviderConf{
		"coingecko":  c.Coingecko,
		"finnhub":    c.Finnhub,
		"yahoochart": c.YahooChart,
	} {
		if p.Timeout < 0 {
			return fmt.Errorf("upstream: %s: timeout must be positive", name)
		}
		if p.RateLimit < 0 {
			return fmt.Errorf("upstream: %s: rate_limit must not be negative", name)
		}
		if p.RateBurst < 0 {
			return fmt.Errorf("upstream: %s: rate_burst must not be negative", name)
		}
	}
	return nil
}

// Limiter builds the outbound rate limiter for the section, nil when local
// limiting is disabled.
func (p ProviderConf) Limiter() *rate.Limiter {
	if p.RateLimit <= 0 {
		return nil
	}
	burst := p.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(p.RateLimit), burst)
}
