package upstream

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadConfigFromReader(t *testing.T) {
	t.Setenv("TEST_FINNHUB_KEY", "fh-secret")

	raw := `
coingecko:
  base_url: https://api.coingecko.test
  timeout: 5s
  rate_limit: 0.5
  rate_burst: 2
finnhub:
  api_key: ${TEST_FINNHUB_KEY}
  timeout: 2500ms
yahoochart:
  user_agent: probe/1.0
`
	cfg, err := LoadConfigFromReader(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "https://api.coingecko.test", cfg.Coingecko.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Coingecko.Timeout)
	assert.Equal(t, 0.5, cfg.Coingecko.RateLimit)
	assert.Equal(t, 2, cfg.Coingecko.RateBurst)

	assert.Equal(t, "fh-secret", cfg.Finnhub.APIKey)
	assert.Equal(t, 2500*time.Millisecond, cfg.Finnhub.Timeout)

	assert.Equal(t, "probe/1.0", cfg.YahooChart.UserAgent)
	assert.Zero(t, cfg.YahooChart.Timeout)
}

func TestLoadConfigFromReaderEmpty(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, ProviderConf{}, cfg.Coingecko)
	assert.Equal(t, ProviderConf{}, cfg.Finnhub)
	assert.Equal(t, ProviderConf{}, cfg.YahooChart)
}

func TestLoadConfigFromReaderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bad timeout",
			raw:  "finnhub:\n  timeout: soon\n",
			want: "invalid timeout",
		},
		{
			name: "negative rate limit",
			raw:  "coingecko:\n  rate_limit: -1\n",
			want: "rate_limit",
		},
		{
			name: "negative burst",
			raw:  "yahoochart:\n  rate_burst: -3\n",
			want: "rate_burst",
		},
		{
			name: "not yaml",
			raw:  "{{nope",
			want: "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProviderConfLimiter(t *testing.T) {
	assert.Nil(t, ProviderConf{}.Limiter())
	assert.Nil(t, ProviderConf{RateLimit: 0}.Limiter())

	l := ProviderConf{RateLimit: 2}.Limiter()
	require.NotNil(t, l)
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 1, l.Burst())

	l = ProviderConf{RateLimit: 1, RateBurst: 4}.Limiter()
	require.NotNil(t, l)
	assert.Equal(t, 4, l.Burst())
}
