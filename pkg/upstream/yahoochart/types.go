package yahoochart

import (
	"encoding/json"

	"marketproxy/pkg/upstream"
)

// sparklinePoints caps how many trailing closes a summary carries. A full day
// of 5-minute candles is ~78 points; 50 is plenty for a thumbnail chart.
const sparklinePoints = 50

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
		PreviousClose      float64 `json:"previousClose"`
	} `json:"meta"`
	Indicators struct {
		Quote []struct {
			// Close uses pointers: the API emits null for candles
			// without trades.
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Summary is the condensed form of one chart response. Callers map it onto
// their wire shape; it carries no JSON tags of its own.
type Summary struct {
	Symbol        string
	Price         float64
	PreviousClose float64
	ChangePercent float64
	Sparkline     []float64
}

// ParseChart condenses a chart body for symbol. The previous close falls back
// from chartPreviousClose through previousClose to the price itself, so the
// change computation never divides by a missing value; the worst case is a
// flat 0% change.
func ParseChart(symbol string, body []byte) (*Summary, error) {
	var env chartEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, upstream.Malformed("yahoochart: chart "+symbol, err)
	}
	if len(env.Chart.Result) == 0 {
		return nil, upstream.NoData("yahoochart: chart " + symbol)
	}

	result := env.Chart.Result[0]
	meta := result.Meta

	name := meta.Symbol
	if name == "" {
		name = symbol
	}

	price := meta.RegularMarketPrice
	prev := meta.ChartPreviousClose
	if prev == 0 {
		prev = meta.PreviousClose
	}
	if prev == 0 {
		prev = price
	}

	change := 0.0
	if prev != 0 {
		change = (price - prev) / prev * 100
	}

	return &Summary{
		Symbol:        name,
		Price:         price,
		PreviousClose: prev,
		ChangePercent: change,
		Sparkline:     sparkline(result),
	}, nil
}

// sparkline keeps the trailing non-null closes, newest last.
func sparkline(result chartResult) []float64 {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close
	points := make([]float64, 0, len(closes))
	for _, c := range closes {
		if c == nil {
			continue
		}
		points = append(points, *c)
	}
	if len(points) > sparklinePoints {
		points = points[len(points)-sparklinePoints:]
	}
	return points
}
