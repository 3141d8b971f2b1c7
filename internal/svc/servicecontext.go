package svc

import (
	"strings"
	"time"

	"marketproxy/internal/cache"
	"marketproxy/internal/config"
	"marketproxy/internal/proxy"
	"marketproxy/internal/validate"
	"marketproxy/pkg/upstream"
	"marketproxy/pkg/upstream/coingecko"
	"marketproxy/pkg/upstream/finnhub"
	"marketproxy/pkg/upstream/yahoochart"
)

// defaultInstrumentSymbols are the dashboard's traditional-market rows when
// the config names none: one stock, one index, one future.
var defaultInstrumentSymbols = []string{"AAPL", "^GSPC", "GC=F"}

type ServiceContext struct {
	Config config.Config

	Store *cache.Store
	Proxy *proxy.Proxy

	Crypto *coingecko.Client
	Stocks *finnhub.Client
	Charts *yahoochart.Client

	// DashboardCoinIDs and DashboardSymbols are sanitized once at startup;
	// the dashboard endpoint never trusts raw config values at request time.
	DashboardCoinIDs []string
	DashboardSymbols []string
}

func NewServiceContext(c config.Config) *ServiceContext {
	upstreams := c.Upstreams.Value
	if upstreams == nil {
		upstreams = &upstream.Config{}
	}

	store := cache.NewStore(time.Duration(c.Cache.TTLSeconds)*time.Second, c.Cache.MaxEntries)

	svc := &ServiceContext{
		Config: c,
		Store:  store,
		Proxy:  proxy.New(store),
		Crypto: coingecko.NewFromConf(upstreams.Coingecko),
		Stocks: finnhub.NewFromConf(upstreams.Finnhub),
		Charts: yahoochart.NewFromConf(upstreams.YahooChart),

		DashboardCoinIDs: validate.CoinIDs(strings.Join(c.Dashboard.CryptoIDs, ",")),
		DashboardSymbols: sanitizeSymbols(c.Dashboard.InstrumentSymbols),
	}
	return svc
}

func sanitizeSymbols(raw []string) []string {
	symbols := make([]string, 0, len(raw))
	for _, s := range raw {
		if sym := validate.Symbol(s, ""); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		return append([]string(nil), defaultInstrumentSymbols...)
	}
	return symbols
}
