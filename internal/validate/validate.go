// Package validate sanitizes caller-supplied query parameters. Every
// function is total: malformed input is coerced to a safe default, never
// rejected, so a junk request costs at most one well-formed upstream call.
package validate

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// maxIDs caps how many asset ids one request may fan out to.
	maxIDs = 20
	// maxIDLength bounds a single id; real slugs stay well under it.
	maxIDLength = 50

	// DefaultCurrency quotes prices when the caller asks for an unknown one.
	DefaultCurrency = "usd"
)

// DefaultCoinIDs replaces an id list that filtered down to nothing.
var DefaultCoinIDs = []string{"bitcoin", "ethereum", "solana"}

var (
	idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	// symbolPattern admits plain tickers plus the index/futures notation of
	// the chart upstream (^GSPC, GC=F, BRK.B).
	symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=-]{1,15}$`)

	// currencies is the quote-currency allow-list.
	currencies = map[string]struct{}{
		"usd": {},
		"eur": {},
		"gbp": {},
		"jpy": {},
		"aud": {},
		"cad": {},
		"btc": {},
	}
)

// CoinIDs parses a comma-separated id list: entries are trimmed, lowercased,
// and dropped unless they are slug-shaped and reasonably short. The result is
// capped at 20 entries; when nothing survives, the default list is returned.
func CoinIDs(raw string) []string {
	ids := make([]string, 0, maxIDs)
	for _, part := range strings.Split(raw, ",") {
		id := strings.ToLower(strings.TrimSpace(part))
		if id == "" || len(id) > maxIDLength || !idPattern.MatchString(id) {
			continue
		}
		ids = append(ids, id)
		if len(ids) == maxIDs {
			break
		}
	}
	if len(ids) == 0 {
		return append([]string(nil), DefaultCoinIDs...)
	}
	return ids
}

// Currency returns the lowercased currency when it is on the allow-list,
// DefaultCurrency otherwise.
func Currency(raw string) string {
	cur := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := currencies[cur]; !ok {
		return DefaultCurrency
	}
	return cur
}

// Flag accepts only the literal strings "true" and "false"; anything else
// becomes the supplied default. The canonical string form feeds the cache key
// so equivalent requests collide.
func Flag(raw string, def bool) string {
	switch strings.TrimSpace(raw) {
	case "true":
		return "true"
	case "false":
		return "false"
	}
	return strconv.FormatBool(def)
}

// Symbol uppercases and validates one instrument symbol, substituting
// fallback when the input is not ticker-shaped.
func Symbol(raw, fallback string) string {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(sym) {
		return fallback
	}
	return sym
}
