package logic

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"marketproxy/internal/cache"
	"marketproxy/internal/proxy"
	"marketproxy/internal/svc"
	"marketproxy/internal/types"
	"marketproxy/internal/validate"
	"marketproxy/pkg/upstream"
	"marketproxy/pkg/upstream/finnhub"
)

// dashboardConcurrency bounds the upstream fan-out of one snapshot build.
const dashboardConcurrency = 4

type DashboardLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDashboardLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DashboardLogic {
	return &DashboardLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Dashboard serves one aggregated snapshot of every tracked asset through
// the cache. The snapshot is best-effort: a failing source leaves a gap, and
// only all sources failing at once counts as an upstream failure.
func (l *DashboardLogic) Dashboard(req *types.DashboardReq) proxy.Result {
	currency := validate.Currency(req.VsCurrency)

	key := cache.DashboardKey(currency)
	return l.svcCtx.Proxy.Serve(l.ctx, key, func(ctx context.Context) (*upstream.Reply, error) {
		return l.assemble(ctx, currency)
	})
}

func (l *DashboardLogic) assemble(ctx context.Context, currency string) (*upstream.Reply, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)

	var coins []types.CoinOverview
	g.Go(func() error {
		rows := l.svcCtx.Crypto.MarketRows(ctx, l.svcCtx.DashboardCoinIDs, currency)
		if len(rows) == 0 {
			l.Infof("dashboard: crypto rows unavailable: ids=%s", strings.Join(l.svcCtx.DashboardCoinIDs, ","))
		}
		coins = make([]types.CoinOverview, 0, len(rows))
		for _, row := range rows {
			coins = append(coins, types.CoinOverview{
				ID:               row.ID,
				Symbol:           strings.ToUpper(row.Symbol),
				Name:             row.Name,
				Price:            row.CurrentPrice,
				ChangePercent24h: row.ChangePercent24h,
				Sparkline:        downsample(row.Sparkline.Price, sparklineLimit),
			})
		}
		return nil
	})

	quotes := make([]*types.InstrumentQuote, len(l.svcCtx.DashboardSymbols))
	for i, symbol := range l.svcCtx.DashboardSymbols {
		g.Go(func() error {
			quotes[i] = l.instrument(ctx, symbol)
			return nil
		})
	}

	// Workers never return errors; an absent result is the failure signal.
	_ = g.Wait()

	instruments := make([]types.InstrumentQuote, 0, len(quotes))
	for _, q := range quotes {
		if q != nil {
			instruments = append(instruments, *q)
		}
	}

	if len(coins) == 0 && len(instruments) == 0 {
		return nil, upstream.NoData("dashboard: every source unavailable")
	}

	body, err := json.Marshal(types.DashboardResp{
		Currency:    currency,
		Crypto:      coins,
		Instruments: instruments,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, upstream.Malformed("dashboard: encode", err)
	}
	return &upstream.Reply{Status: http.StatusOK, Body: body}, nil
}

// instrument resolves one symbol, preferring the quote upstream and falling
// back to the chart upstream for symbols it does not carry (indices,
// futures). Both failing yields nil, a gap in the snapshot.
func (l *DashboardLogic) instrument(ctx context.Context, symbol string) *types.InstrumentQuote {
	reply, err := l.svcCtx.Stocks.Quote(ctx, symbol)
	if err == nil && reply.OK() {
		if quote, perr := finnhub.ParseQuote(reply.Body); perr == nil && !quote.Zero() {
			return &types.InstrumentQuote{
				Symbol:        symbol,
				Price:         quote.Current,
				ChangePercent: quote.ChangePercent(),
			}
		}
	}

	summary, err := l.svcCtx.Charts.Summarize(ctx, symbol)
	if err != nil {
		l.Errorf("dashboard: instrument unavailable: symbol=%s cause=%v", symbol, err)
		return nil
	}
	return &types.InstrumentQuote{
		Symbol:        summary.Symbol,
		Price:         summary.Price,
		ChangePercent: summary.ChangePercent,
		Sparkline:     summary.Sparkline,
	}
}

// sparklineLimit caps dashboard sparklines; the 7d crypto series arrives with
// ~170 points, far more than a thumbnail needs.
const sparklineLimit = 50

// downsample reduces points to at most max entries, evenly spaced, keeping
// the first and last values.
func downsample(points []float64, max int) []float64 {
	if len(points) <= max {
		return points
	}
	out := make([]float64, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		out = append(out, points[int(math.Round(float64(i)*step))])
	}
	return out
}
