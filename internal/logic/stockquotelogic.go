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
	"marketproxy/pkg/upstream/finnhub"
)

const defaultQuoteSymbol = "AAPL"

type StockQuoteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStockQuoteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StockQuoteLogic {
	return &StockQuoteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// StockQuote serves the normalized quote for one stock symbol through the
// cache.
func (l *StockQuoteLogic) StockQuote(req *types.SymbolReq) proxy.Result {
	symbol := validate.Symbol(req.Symbol, defaultQuoteSymbol)

	key := cache.QuoteKey(symbol)
	return l.svcCtx.Proxy.Serve(l.ctx, key, func(ctx context.Context) (*upstream.Reply, error) {
		return fetchQuote(ctx, l.svcCtx.Stocks, symbol)
	})
}

// fetchQuote performs one quote attempt and normalizes the body. Failures
// and non-2xx replies pass through untouched for the orchestrator to rule
// on. An all-zero quote is how this upstream answers 200 for a symbol it
// does not know, so it becomes a no-data failure rather than a zero price.
func fetchQuote(ctx context.Context, client *finnhub.Client, symbol string) (*upstream.Reply, error) {
	reply, err := client.Quote(ctx, symbol)
	if err != nil || !reply.OK() {
		return reply, err
	}

	quote, err := finnhub.ParseQuote(reply.Body)
	if err != nil {
		return nil, err
	}
	if quote.Zero() {
		return nil, upstream.NoData("finnhub: quote " + symbol)
	}

	body, err := json.Marshal(types.InstrumentQuote{
		Symbol:        symbol,
		Price:         quote.Current,
		ChangePercent: quote.ChangePercent(),
	})
	if err != nil {
		return nil, upstream.Malformed("quote: encode "+symbol, err)
	}
	return &upstream.Reply{Status: reply.Status, Body: body}, nil
}
