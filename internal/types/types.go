// Code scaffolded by goctl. Safe to edit.
package types

// CryptoPricesReq mirrors the query parameters of the simple-price endpoint.
// All fields are optional; sanitization supplies defaults.
type CryptoPricesReq struct {
	IDs               string `form:"ids,optional"`
	VsCurrencies      string `form:"vs_currencies,optional"`
	Include24hrChange string `form:"include_24hr_change,optional"`
}

// CryptoMarketsReq mirrors the query parameters of the markets endpoint.
type CryptoMarketsReq struct {
	IDs        string `form:"ids,optional"`
	VsCurrency string `form:"vs_currency,optional"`
}

// SymbolReq carries the single instrument symbol of the quote and chart
// endpoints.
type SymbolReq struct {
	Symbol string `form:"symbol,optional"`
}

// DashboardReq selects the quote currency for the aggregated dashboard.
type DashboardReq struct {
	VsCurrency string `form:"vs_currency,optional"`
}

// InstrumentQuote is the normalized shape served for stocks, indices and
// futures.
type InstrumentQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"changePercent"`
	Sparkline     []float64 `json:"sparkline,omitempty"`
}

// CoinOverview is one crypto row of the dashboard.
type CoinOverview struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	ChangePercent24h float64   `json:"changePercent24h"`
	Sparkline        []float64 `json:"sparkline,omitempty"`
}

// DashboardResp aggregates every tracked asset class in one payload.
type DashboardResp struct {
	Currency    string            `json:"currency"`
	Crypto      []CoinOverview    `json:"crypto"`
	Instruments []InstrumentQuote `json:"instruments"`
	GeneratedAt string            `json:"generatedAt"`
}

// HealthResp answers liveness probes.
type HealthResp struct {
	Status string `json:"status"`
}
