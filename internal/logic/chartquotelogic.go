package logic

import (
	"context"
	"encoding/json"

	"github.com/zeromicro/go-zero/core/logx"

	"marketproxy/internal/cache"
	"marketproxy/internal/proxy"
	"marketproxy/internal/svc"
	"marketproxy/internal/types"
	"marketproxy/internal/validate"
	"marketproxy/pkg/upstream"
	"marketproxy/pkg/upstream/yahoochart"
)

const defaultChartSymbol = "^GSPC"

// ChartQuoteLogic serves instruments the quote upstream does not cover:
// indices, futures, commodities.
type ChartQuoteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChartQuoteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChartQuoteLogic {
	return &ChartQuoteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ChartQuote serves the normalized chart summary for one symbol through the
// cache.
func (l *ChartQuoteLogic) ChartQuote(req *types.SymbolReq) proxy.Result {
	symbol := validate.Symbol(req.Symbol, defaultChartSymbol)

	key := cache.ChartKey(symbol)
	return l.svcCtx.Proxy.Serve(l.ctx, key, func(ctx context.Context) (*upstream.Reply, error) {
		return fetchChart(ctx, l.svcCtx.Charts, symbol)
	})
}

// fetchChart performs one chart attempt and condenses the body into the
// normalized instrument shape. Failures and non-2xx replies pass through
// untouched for the orchestrator to rule on.
func fetchChart(ctx context.Context, client *yahoochart.Client, symbol string) (*upstream.Reply, error) {
	reply, err := client.Chart(ctx, symbol)
	if err != nil || !reply.OK() {
		return reply, err
	}

	summary, err := yahoochart.ParseChart(symbol, reply.Body)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(types.InstrumentQuote{
		Symbol:        summary.Symbol,
		Price:         summary.Price,
		ChangePercent: summary.ChangePercent,
		Sparkline:     summary.Sparkline,
	})
	if err != nil {
		return nil, upstream.Malformed("chart: encode "+symbol, err)
	}
	return &upstream.Reply{Status: reply.Status, Body: body}, nil
}
