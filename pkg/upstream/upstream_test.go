package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestReplyOK(t *testing.T) {
	tests := []struct {
		name  string
		reply *Reply
		ok    bool
	}{
		{name: "nil reply", reply: nil, ok: false},
		{name: "200", reply: &Reply{Status: http.StatusOK}, ok: true},
		{name: "204", reply: &Reply{Status: http.StatusNoContent}, ok: true},
		{name: "299", reply: &Reply{Status: 299}, ok: true},
		{name: "301", reply: &Reply{Status: http.StatusMovedPermanently}, ok: false},
		{name: "429", reply: &Reply{Status: http.StatusTooManyRequests}, ok: false},
		{name: "500", reply: &Reply{Status: http.StatusInternalServerError}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.reply.OK())
		})
	}
}

func TestReplyRateLimited(t *testing.T) {
	assert.True(t, (&Reply{Status: http.StatusTooManyRequests}).RateLimited())
	assert.False(t, (&Reply{Status: http.StatusOK}).RateLimited())
	assert.False(t, (*Reply)(nil).RateLimited())
}

func TestGetReturnsNon2xxAsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"throttled"}`))
	}))
	defer srv.Close()

	reply, err := Get(context.Background(), srv.Client(), nil, "test: get", srv.URL, nil)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.True(t, reply.RateLimited())
	assert.JSONEq(t, `{"status":"throttled"}`, string(reply.Body))
}

func TestGetSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("X-Token", "secret")
	_, err := Get(context.Background(), srv.Client(), nil, "test: get", srv.URL, header)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Get("X-Token"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestGetClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	reply, err := Get(ctx, srv.Client(), nil, "test: get", srv.URL, nil)
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.Equal(t, ReasonTimeout, ReasonOf(err))
}

func TestGetClassifiesNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	reply, err := Get(context.Background(), http.DefaultClient, nil, "test: get", srv.URL, nil)
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.Equal(t, ReasonNetwork, ReasonOf(err))
}

func TestGetSurfacesLimiterDenial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach upstream when the limiter denies it")
	}))
	defer srv.Close()

	// A zero-burst limiter can never admit a request, so Wait fails fast.
	limiter := rate.NewLimiter(0, 0)
	reply, err := Get(context.Background(), srv.Client(), limiter, "test: get", srv.URL, nil)
	require.Error(t, err)
	assert.Nil(t, reply)
}

func TestFailedClassification(t *testing.T) {
	assert.Equal(t, ReasonTimeout, Failed("op", context.DeadlineExceeded).Reason)
	assert.Equal(t, ReasonNetwork, Failed("op", errors.New("connection refused")).Reason)
}

func TestErrorFormatting(t *testing.T) {
	err := Malformed("coingecko: markets", errors.New("unexpected end of JSON input"))
	assert.Equal(t, "coingecko: markets: malformed: unexpected end of JSON input", err.Error())
	assert.Equal(t, "finnhub: quote: no_data", NoData("finnhub: quote").Error())
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, ReasonNoData, ReasonOf(NoData("op")))
	wrapped := errors.Join(errors.New("outer"), Malformed("op", errors.New("inner")))
	assert.Equal(t, ReasonMalformed, ReasonOf(wrapped))
	assert.Equal(t, ReasonNetwork, ReasonOf(errors.New("plain")))
}
