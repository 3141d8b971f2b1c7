package finnhub

import (
	"encoding/json"

	"marketproxy/pkg/upstream"
)

// Quote mirrors the single-letter field names of the quote endpoint.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePct     float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// ParseQuote decodes a quote body.
func ParseQuote(body []byte) (*Quote, error) {
	var q Quote
	if err := json.Unmarshal(body, &q); err != nil {
		return nil, upstream.Malformed("finnhub: quote", err)
	}
	return &q, nil
}

// Zero reports whether the quote is the all-zero placeholder the API returns
// with a 200 for symbols it does not know. Price, high and low being zero at
// once does not happen for a real instrument.
func (q *Quote) Zero() bool {
	return q.Current == 0 && q.High == 0 && q.Low == 0
}

// ChangePercent returns the reported 24h change percentage, deriving it from
// the previous close when the upstream omits the field. A zero previous close
// yields zero rather than a division blowup.
func (q *Quote) ChangePercent() float64 {
	if q.ChangePct != 0 {
		return q.ChangePct
	}
	if q.PreviousClose == 0 {
		return 0
	}
	return (q.Current - q.PreviousClose) / q.PreviousClose * 100
}
