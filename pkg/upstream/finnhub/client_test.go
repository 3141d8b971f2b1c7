package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
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

func TestQuoteBuildsRequest(t *testing.T) {
	var gotPath, gotSymbol, gotToken string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		gotToken = r.Header.Get("X-Finnhub-Token")
		_, _ = w.Write([]byte(`{"c":227.5,"d":1.2,"dp":0.53,"h":229.9,"l":226.1,"o":226.4,"pc":226.3,"t":1733774400}`))
	}, WithAPIKey("fh-token"))

	reply, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, reply.OK())

	assert.Equal(t, "/api/v1/quote", gotPath)
	assert.Equal(t, "AAPL", gotSymbol)
	assert.Equal(t, "fh-token", gotToken)

	quote, err := ParseQuote(reply.Body)
	require.NoError(t, err)
	assert.Equal(t, 227.5, quote.Current)
	assert.Equal(t, 0.53, quote.ChangePct)
	assert.False(t, quote.Zero())
}

func TestQuotePassesThroughUpstreamStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"API limit reached."}`))
	})

	reply, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, reply.RateLimited())
}

func TestParseQuoteMalformed(t *testing.T) {
	_, err := ParseQuote([]byte(`<html>nope</html>`))
	require.Error(t, err)
	assert.Equal(t, upstream.ReasonMalformed, upstream.ReasonOf(err))
}

func TestQuoteZero(t *testing.T) {
	tests := []struct {
		name  string
		quote Quote
		zero  bool
	}{
		{name: "unknown symbol placeholder", quote: Quote{}, zero: true},
		{name: "real quote", quote: Quote{Current: 227.5, High: 229.9, Low: 226.1}, zero: false},
		{name: "halted at zero change", quote: Quote{Current: 12, High: 12, Low: 12}, zero: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.zero, tt.quote.Zero())
		})
	}
}

func TestQuoteChangePercent(t *testing.T) {
	tests := []struct {
		name  string
		quote Quote
		want  float64
	}{
		{name: "reported", quote: Quote{Current: 100, PreviousClose: 50, ChangePct: 1.5}, want: 1.5},
		{name: "derived", quote: Quote{Current: 110, PreviousClose: 100}, want: 10},
		{name: "derived negative", quote: Quote{Current: 90, PreviousClose: 100}, want: -10},
		{name: "zero previous close", quote: Quote{Current: 90}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.quote.ChangePercent(), 1e-9)
		})
	}
}
