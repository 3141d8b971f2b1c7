package coingecko

import (
	"encoding/json"

	"marketproxy/pkg/upstream"
)

// MarketRow is one entry of the markets listing, reduced to the fields the
// aggregation layer consumes.
type MarketRow struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	CurrentPrice     float64   `json:"current_price"`
	ChangePercent24h float64   `json:"price_change_percentage_24h"`
	MarketCap        float64   `json:"market_cap"`
	TotalVolume      float64   `json:"total_volume"`
	Sparkline        Sparkline `json:"sparkline_in_7d"`
}

// Sparkline carries the 7d price series attached to a market row.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// ParseMarkets decodes a markets listing body.
func ParseMarkets(body []byte) ([]MarketRow, error) {
	var rows []MarketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, upstream.Malformed("coingecko: markets", err)
	}
	return rows, nil
}
