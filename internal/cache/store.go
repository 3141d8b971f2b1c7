// Package cache provides the process-local response cache and the key
// derivation shared by every proxy endpoint. Entries survive past their TTL
// on purpose: a stale payload is the fallback when the upstream degrades.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is the freshness window for cached payloads.
	DefaultTTL = 120 * time.Second
	// DefaultMaxEntries bounds the store; the working set of a deployment
	// is a handful of keys, the cap only guards against hostile key churn.
	DefaultMaxEntries = 512
)

// Entry is one captured upstream response. Status and Payload replay exactly
// what the upstream answered at capture time; CapturedAt drives freshness.
type Entry struct {
	Key        string
	Status     int
	Payload    []byte
	CapturedAt time.Time
}

// Store is a keyed snapshot cache. Writes copy the payload; readers must
// treat the returned payload as immutable.
type Store struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore builds a store with the given freshness window and entry cap,
// substituting defaults for non-positive values.
func NewStore(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]Entry),
	}
}

// TTL returns the freshness window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry for key regardless of its age. Staleness is the
// caller's call: a stale entry still beats no data during an upstream outage.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Put captures an upstream response under key, overwriting any prior entry.
func (s *Store) Put(key string, status int, payload []byte) {
	buf := make([]byte, len(payload))
	copy(buf, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictLocked()
	}
	s.entries[key] = Entry{
		Key:        key,
		Status:     status,
		Payload:    buf,
		CapturedAt: time.Now(),
	}
}

// Fresh reports whether e is young enough to serve without an upstream call.
// An entry exactly at the TTL boundary counts as stale.
func (s *Store) Fresh(e Entry) bool {
	return time.Since(e.CapturedAt) < s.ttl
}

// evictLocked makes room for one insert. Entries past the freshness window
// go first since they only serve the fallback path; if every entry is still
// fresh the oldest one is sacrificed.
func (s *Store) evictLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range s.entries {
		if !s.Fresh(e) {
			delete(s.entries, key)
			if len(s.entries) < s.maxEntries {
				return
			}
			continue
		}
		if oldestKey == "" || e.CapturedAt.Before(oldestAt) {
			oldestKey, oldestAt = key, e.CapturedAt
		}
	}
	if len(s.entries) >= s.maxEntries && oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
