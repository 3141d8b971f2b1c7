// Package upstream holds the plumbing shared by the provider clients: the
// result model for a single upstream attempt, failure classification, and the
// provider configuration file format.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds one upstream attempt end to end. A call that exceeds
// it is abandoned and classified as a timeout, never left pending.
const DefaultTimeout = 10 * time.Second

// Reply is an upstream HTTP response that was received and read in full,
// whatever its status code. When a call yields no Reply it yields a
// classified *Error instead; there is no third state.
type Reply struct {
	Status int
	Body   []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Reply) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// RateLimited reports whether the upstream answered 429.
func (r *Reply) RateLimited() bool {
	return r != nil && r.Status == http.StatusTooManyRequests
}

// Reason classifies why an attempt produced no usable reply. The orchestrator
// treats every reason identically; the split exists for logs and tests.
type Reason string

const (
	ReasonTimeout   Reason = "timeout"
	ReasonNetwork   Reason = "network"
	ReasonMalformed Reason = "malformed"
	ReasonNoData    Reason = "no_data"
)

// Error is a classified upstream failure.
type Error struct {
	Reason Reason
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Failed wraps a transport error for op, classifying deadline and network
// timeouts as ReasonTimeout and everything else as ReasonNetwork.
func Failed(op string, err error) *Error {
	reason := ReasonNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		reason = ReasonTimeout
	}
	return &Error{Reason: reason, Op: op, Err: err}
}

// Malformed flags a body that could not be decoded into the expected shape.
func Malformed(op string, err error) *Error {
	return &Error{Reason: ReasonMalformed, Op: op, Err: err}
}

// NoData flags a response that decoded cleanly but carries nothing usable,
// e.g. a quote upstream signalling "unknown symbol".
func NoData(op string) *Error {
	return &Error{Reason: ReasonNoData, Op: op}
}

// ReasonOf extracts the classification from err; untyped errors count as
// network failures.
func ReasonOf(err error) Reason {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ReasonNetwork
}

// Get performs exactly one GET against rawURL and reads the body in full.
// No retries happen at this layer: the orchestrator substitutes stale cache
// for retry. A non-nil limiter is awaited first so the process stays inside
// the provider's request allowance; the wait shares the caller's deadline.
func Get(ctx context.Context, hc *http.Client, limiter *rate.Limiter, op, rawURL string, header http.Header) (*Reply, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, Failed(op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Failed(op, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		req.Header[k] = vals
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, Failed(op, ctx.Err())
		}
		return nil, Failed(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Failed(op, err)
	}
	return &Reply{Status: resp.StatusCode, Body: body}, nil
}
