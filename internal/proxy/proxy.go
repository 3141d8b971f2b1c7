// Package proxy implements the serve-from-cache-or-upstream decision every
// endpoint shares: fresh cache wins, one upstream attempt follows, and stored
// data of any age beats an error reply.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketproxy/internal/cache"
	"marketproxy/pkg/upstream"
)

// CacheStatus tells the caller how the payload was produced. Handlers expose
// it verbatim in the X-Cache-Status header.
type CacheStatus string

const (
	// CacheHit means the entry was fresh, no upstream call happened.
	CacheHit CacheStatus = "hit"
	// CacheMiss means the upstream was called and answered usably.
	CacheMiss CacheStatus = "miss"
	// CacheStaleRateLimit means the upstream answered 429 and an older
	// snapshot was served instead.
	CacheStaleRateLimit CacheStatus = "stale-rate-limit"
	// CacheStaleError means the upstream failed some other way and an
	// older snapshot was served instead.
	CacheStaleError CacheStatus = "stale-error"
	// CacheNone means no data of any age could be produced.
	CacheNone CacheStatus = "none"
)

// UnavailableBody is the only error payload callers ever see. It stays
// deliberately generic so no upstream detail or credential can leak through.
const UnavailableBody = `{"error":"upstream data unavailable"}`

// Fetcher performs one upstream attempt. A nil error with a non-2xx Reply is
// a failure the orchestrator may still fall back from; a non-nil error means
// no reply existed at all.
type Fetcher func(ctx context.Context) (*upstream.Reply, error)

// Result is the materialized response for one request.
type Result struct {
	Status int
	Body   []byte
	Cache  CacheStatus
}

// Unavailable is the terminal result when neither upstream nor cache can
// produce data.
func Unavailable() Result {
	return Result{
		Status: http.StatusBadGateway,
		Body:   []byte(UnavailableBody),
		Cache:  CacheNone,
	}
}

// Proxy orchestrates one Store. It is stateless beyond the store and safe
// for concurrent use.
type Proxy struct {
	store *cache.Store
}

// New returns a Proxy backed by store.
func New(store *cache.Store) *Proxy {
	return &Proxy{store: store}
}

// Serve answers one request for key:
//
//  1. A fresh cache entry is served as-is.
//  2. Otherwise the fetcher runs once. A 2xx reply is stored and served.
//  3. A 429 reply falls back to the cached entry however stale.
//  4. Any other failure falls back the same way, marked differently.
//  5. With no entry to fall back to, a fixed generic error is served.
//
// Two goroutines missing the same key concurrently both call upstream; the
// last write wins. The payloads are tiny and the upstreams idempotent, so the
// duplicate call is cheaper than coordinating the miss path.
func (p *Proxy) Serve(ctx context.Context, key string, fetch Fetcher) Result {
	logger := logx.WithContext(ctx)

	if e, ok := p.store.Get(key); ok && p.store.Fresh(e) {
		return Result{Status: e.Status, Body: e.Payload, Cache: CacheHit}
	}

	reply, err := fetch(ctx)
	if err == nil && reply.OK() {
		p.store.Put(key, reply.Status, reply.Body)
		return Result{Status: reply.Status, Body: reply.Body, Cache: CacheMiss}
	}

	status := CacheStaleError
	if reply.RateLimited() {
		status = CacheStaleRateLimit
	}

	if e, ok := p.store.Get(key); ok {
		age := time.Since(e.CapturedAt).Round(time.Second)
		if status == CacheStaleRateLimit {
			logger.Infof("proxy: upstream rate limited, serving snapshot: key=%s age=%s", key, age)
		} else {
			logger.Errorf("proxy: upstream failed, serving snapshot: key=%s age=%s cause=%s", key, age, describeFailure(reply, err))
		}
		return Result{Status: e.Status, Body: e.Payload, Cache: status}
	}

	logger.Errorf("proxy: no data available: key=%s cause=%s", key, describeFailure(reply, err))
	return Unavailable()
}

// Store exposes the backing store for handlers that need the TTL.
func (p *Proxy) Store() *cache.Store {
	return p.store
}

func describeFailure(reply *upstream.Reply, err error) string {
	if err != nil {
		return string(upstream.ReasonOf(err)) + ": " + err.Error()
	}
	if reply != nil {
		return fmt.Sprintf("status %d", reply.Status)
	}
	return "no reply"
}
