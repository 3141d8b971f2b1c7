package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketproxy/pkg/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	return NewClient(opts...)
}

func TestSimplePriceBuildsRequest(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	var gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-cg-demo-api-key")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":97234.1,"usd_24h_change":-1.2}}`))
	}, WithAPIKey("demo-key"))

	reply, err := client.SimplePrice(context.Background(), []string{"bitcoin", "ethereum"}, "usd", true)
	require.NoError(t, err)
	require.True(t, reply.OK())

	assert.Equal(t, "/api/v3/simple/price", gotPath)
	assert.Equal(t, "bitcoin,ethereum", gotQuery.Get("ids"))
	assert.Equal(t, "usd", gotQuery.Get("vs_currencies"))
	assert.Equal(t, "true", gotQuery.Get("include_24hr_change"))
	assert.Equal(t, "demo-key", gotKey)
	assert.JSONEq(t, `{"bitcoin":{"usd":97234.1,"usd_24h_change":-1.2}}`, string(reply.Body))
}

func TestSimplePricePassesThroughUpstreamStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	})

	reply, err := client.SimplePrice(context.Background(), []string{"bitcoin"}, "usd", false)
	require.NoError(t, err)
	assert.True(t, reply.RateLimited())
	assert.Contains(t, string(reply.Body), "429")
}

func TestMarketsBuildsRequest(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	reply, err := client.Markets(context.Background(), []string{"bitcoin", "solana"}, "eur")
	require.NoError(t, err)
	require.True(t, reply.OK())

	assert.Equal(t, "bitcoin,solana", gotQuery.Get("ids"))
	assert.Equal(t, "eur", gotQuery.Get("vs_currency"))
	assert.Equal(t, "market_cap_desc", gotQuery.Get("order"))
	assert.Equal(t, "true", gotQuery.Get("sparkline"))
	assert.Equal(t, "24h", gotQuery.Get("price_change_percentage"))
}

func TestParseMarkets(t *testing.T) {
	body := `[
		{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":97234.1,
		 "price_change_percentage_24h":-1.23,"sparkline_in_7d":{"price":[1,2,3]}},
		{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3321.4,
		 "price_change_percentage_24h":0.8,"sparkline_in_7d":{"price":[]}}
	]`
	rows, err := ParseMarkets([]byte(body))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bitcoin", rows[0].ID)
	assert.Equal(t, []float64{1, 2, 3}, rows[0].Sparkline.Price)
	assert.Equal(t, 3321.4, rows[1].CurrentPrice)

	_, err = ParseMarkets([]byte(`{"not":"a list"}`))
	require.Error(t, err)
	assert.Equal(t, upstream.ReasonMalformed, upstream.ReasonOf(err))
}

func TestMarketRowsCollapsesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name: "ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"id":"bitcoin","current_price":1}]`))
			},
			want: 1,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: 0,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want: 0,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"oops"`))
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			rows := client.MarketRows(context.Background(), []string{"bitcoin"}, "usd")
			assert.Len(t, rows, tt.want)
		})
	}
}
