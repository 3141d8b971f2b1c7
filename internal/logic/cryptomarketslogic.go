package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketproxy/internal/cache"
	"marketproxy/internal/proxy"
	"marketproxy/internal/svc"
	"marketproxy/internal/types"
	"marketproxy/internal/validate"
	"marketproxy/pkg/upstream"
)

type CryptoMarketsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCryptoMarketsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CryptoMarketsLogic {
	return &CryptoMarketsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// CryptoMarkets proxies the markets listing upstream through the cache,
// passing the upstream body through verbatim.
func (l *CryptoMarketsLogic) CryptoMarkets(req *types.CryptoMarketsReq) proxy.Result {
	ids := validate.CoinIDs(req.IDs)
	currency := validate.Currency(req.VsCurrency)

	key := cache.MarketsKey(ids, currency)
	return l.svcCtx.Proxy.Serve(l.ctx, key, func(ctx context.Context) (*upstream.Reply, error) {
		return l.svcCtx.Crypto.Markets(ctx, ids, currency)
	})
}
