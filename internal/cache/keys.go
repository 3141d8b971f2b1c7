package cache

import "strings"

// Every cache key names exactly one sanitized upstream request shape, so two
// requests share an entry iff they would hit the upstream identically.
//
// The crypto prices key deliberately carries no prefix: its three segments
// are already pattern-bounded by validation, and the canonical join (for
// example "bitcoin,ethereum:usd:true") is the key contract the handlers and
// tests rely on. The remaining keys get a purpose prefix; none of their first
// segments can collide with a lowercase id list.

// PricesKey keys a simple-price lookup.
func PricesKey(ids []string, currency, includeChange string) string {
	return strings.Join(ids, ",") + ":" + currency + ":" + includeChange
}

// MarketsKey keys a markets listing lookup.
func MarketsKey(ids []string, currency string) string {
	return formatKey("markets", strings.Join(ids, ","), currency)
}

// QuoteKey keys a stock quote lookup.
func QuoteKey(symbol string) string {
	return formatKey("quote", symbol)
}

// ChartKey keys a chart summary lookup.
func ChartKey(symbol string) string {
	return formatKey("chart", symbol)
}

// DashboardKey keys an aggregated dashboard snapshot.
func DashboardKey(currency string) string {
	return formatKey("dashboard", currency)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}
