package handler

import (
	"fmt"
	"net/http"
	"time"

	"marketproxy/internal/proxy"
)

// jsonContentType matches what go-zero's httpx writes for JSON payloads.
const jsonContentType = "application/json; charset=utf-8"

// writeResult writes an orchestrated payload verbatim. Bodies are pre-encoded
// JSON captured from the upstream or the cache, so this bypasses httpx instead
// of re-marshaling.
func writeResult(w http.ResponseWriter, ttl time.Duration, res proxy.Result) {
	h := w.Header()
	h.Set("Content-Type", jsonContentType)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Cache-Control", cacheControl(res.Cache, ttl))
	if res.Cache != proxy.CacheNone {
		h.Set("X-Cache-Status", string(res.Cache))
	}
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

// cacheControl advertises how long intermediaries may reuse the payload. A
// snapshot served after an upstream error gets a short window with a long
// stale-while-revalidate allowance so edge caches keep absorbing traffic
// through an outage. Hard failures must never be cached.
func cacheControl(status proxy.CacheStatus, ttl time.Duration) string {
	switch status {
	case proxy.CacheNone:
		return "no-store"
	case proxy.CacheStaleError:
		return "public, s-maxage=30, stale-while-revalidate=600"
	default:
		maxAge := int(ttl / time.Second)
		return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", maxAge, maxAge/2)
	}
}
